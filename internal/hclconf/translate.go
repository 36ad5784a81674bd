package hclconf

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/cachebust/internal/config"
	"github.com/vk/cachebust/internal/schema"
)

// translate converts the decoded HCL schema into the agnostic config model,
// evaluating list-valued attributes and applying defaults.
func translate(decoded *schema.File) (*config.Model, error) {
	if decoded.Source == nil {
		return nil, errors.New("missing required 'source' block")
	}

	model := &config.Model{
		SourceRoot: decoded.Source.Root,
		Extensions: config.DefaultExtensions,
	}

	extensions, err := stringList(decoded.Source.Extensions, "extensions")
	if err != nil {
		return nil, err
	}
	if extensions != nil {
		model.Extensions = extensions
	}

	exclude, err := stringList(decoded.Source.Exclude, "exclude")
	if err != nil {
		return nil, err
	}
	model.Exclude = exclude

	if decoded.Output != nil {
		model.OutputRoot = decoded.Output.Root
		model.CleanOutput = decoded.Output.Clean
	}

	return model, nil
}

// stringList evaluates an optional list-of-strings attribute. A nil
// expression or a null value means the attribute was omitted.
func stringList(expr hcl.Expression, name string) ([]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid value for '%s': %w", name, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("'%s' must be a list of strings: %w", name, err)
	}
	var out []string
	for _, item := range converted.AsValueSlice() {
		out = append(out, item.AsString())
	}
	return out, nil
}
