// Package templates embeds the files written by mcuwatch init.
package templates

import "embed"

//go:embed config.yaml env.example
var FS embed.FS
