package main

import (
	"context"
	"os"

	"github.com/cloudevolvers/catalog/internal/pkg/logger"
	"github.com/cloudevolvers/catalog/internal/server"
)

// @title Cloud Evolvers Catalog API
// @version 1.0
// @description Training catalog, course pages, bilingual blog and course pricing for the Cloud Evolvers site
// @termsOfService http://swagger.io/terms/

// @contact.name Cloud Evolvers
// @contact.url https://cloudevolvers.com
// @contact.email info@cloudevolvers.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin JWT from POST /admin/token, sent as "Bearer <token>"

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Details are logged by the setup step that failed
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}
}
