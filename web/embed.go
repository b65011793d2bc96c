// Package web embeds the compiled frontend shell served by the API process.
package web

import "embed"

//go:embed static
var Static embed.FS
