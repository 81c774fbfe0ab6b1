// Package appfs embeds the database migrations and email templates into the binaries.
package appfs

import "embed"

//go:embed migrations all:templates
var FS embed.FS
