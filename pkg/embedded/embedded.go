// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the built frontend (frontend/dist), served directly via HTTP.
//
//go:embed frontend/dist
var Files embed.FS
