// Package datafiles carries sample data shipped with the module.
package datafiles

import "embed"

// FS holds the sample tilesets and maps. Names are relative to this
// directory, e.g. "Overworld.tsx".
//
//go:embed Overworld.tsx
var FS embed.FS
