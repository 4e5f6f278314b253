// Package templates embeds the portal's html templates.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
