package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPricingRepository returns the Postgres store when a pool is given and
// the in-memory store otherwise.
func NewPricingRepository(db *pgxpool.Pool) PricingRepository {
	if db == nil {
		return NewMemoryPricingRepository()
	}
	return NewPostgresPricingRepository(db)
}
