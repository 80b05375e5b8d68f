// Package content embeds the training catalog and blog data into the binary.
//
// Layout of the embedded tree:
//
//	catalog.yaml            ordered list of course slugs
//	courses/<slug>.yaml     course metadata
//	courses/<slug>.html     course page body
//	blog/index.yaml         list of published post files
//	blog/<id>.yaml          bilingual blog post
package content

import (
	"embed"
	"io/fs"
)

//go:embed data
var files embed.FS

// FS returns the embedded content tree rooted at the data directory
func FS() fs.FS {
	sub, err := fs.Sub(files, "data")
	if err != nil {
		// fs.Sub only fails for an invalid path, and "data" is a constant
		panic(err)
	}
	return sub
}
