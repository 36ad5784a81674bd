// Package schema holds the HCL shapes of the configuration file. The hclconf
// loader decodes into these structs and translates them into the
// format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// Source describes the `source` block: where modules live and which of them
// participate in the build.
type Source struct {
	Root       string         `hcl:"root"`
	Extensions hcl.Expression `hcl:"extensions,optional"`
	Exclude    hcl.Expression `hcl:"exclude,optional"`
}

// Output describes the `output` block. The whole block is optional; without
// it the build rewrites files in place.
type Output struct {
	Root  string `hcl:"root,optional"`
	Clean bool   `hcl:"clean,optional"`
}

// File is the top-level structure of a configuration file.
type File struct {
	Source *Source  `hcl:"source,block"`
	Output *Output  `hcl:"output,block"`
	Body   hcl.Body `hcl:",remain"`
}
