// Package topics embeds the sample topic files shipped with drillz.
package topics

import "embed"

// FS holds the sample topics. It is searched after the topics directory.
//
//go:embed *.yaml
var FS embed.FS
