// Package assets holds files compiled into the launcher binary.
package assets

import _ "embed"

// DefaultIcon is shown for instances without an icon or with a missing one
//
//go:embed default.png
var DefaultIcon []byte

// DefaultIconName is the display name used for the built-in icon
const DefaultIconName = "default.png"
