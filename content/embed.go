package content

import "embed"

// FS holds the markdown sources for the landing and public pages.
//
//go:embed *.md
var FS embed.FS
