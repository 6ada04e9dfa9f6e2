// Package hcl loads transition system models from HCL files.
//
// A model file describes one transition system:
//
//	model "railway" {
//	  initial = "s1"
//	  bad     = ["error"]
//
//	  state "s1" { to = ["s2", "s4"] }
//	  state "s2" { to = ["s3", "s5"] }
//	  state "safe" {}
//	}
package hcl

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"traceblame/core/ts"
	"traceblame/internal/errors"
)

// Model is a named transition system loaded from a file
type Model struct {
	Name   string
	System *ts.System
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "model", LabelNames: []string{"name"}},
	},
}

var modelSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "initial"},
		{Name: "bad"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "state", LabelNames: []string{"id"}},
	},
}

var stateSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "to"},
	},
}

// Load parses a model file
func Load(path string) (*Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("failed to read model file %s", path), err)
	}
	return Parse(src, path)
}

// Parse parses model source. filename is used for diagnostics only.
func Parse(src []byte, filename string) (*Model, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}
	if len(content.Blocks) != 1 {
		return nil, errors.Newf(errors.TypeParsing, "%s: expected exactly one model block, found %d", filename, len(content.Blocks))
	}

	block := content.Blocks[0]
	model := &Model{
		Name:   block.Labels[0],
		System: ts.NewSystem(),
	}

	body, diags := block.Body.Content(modelSchema)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	for _, stateBlock := range body.Blocks {
		id := ts.State(stateBlock.Labels[0])
		model.System.AddState(id)

		stateBody, diags := stateBlock.Body.Content(stateSchema)
		if diags.HasErrors() {
			return nil, diagError(filename, diags)
		}
		if attr, ok := stateBody.Attributes["to"]; ok {
			targets, err := stringList(attr, filename)
			if err != nil {
				return nil, err
			}
			for _, target := range targets {
				model.System.AddTransition(id, ts.State(target))
			}
		}
	}

	if attr, ok := body.Attributes["initial"]; ok {
		initial, err := stringValue(attr, filename)
		if err != nil {
			return nil, err
		}
		model.System.SetInitial(ts.State(initial))
	}
	if attr, ok := body.Attributes["bad"]; ok {
		badStates, err := stringList(attr, filename)
		if err != nil {
			return nil, err
		}
		for _, bad := range badStates {
			model.System.AddBadState(ts.State(bad))
		}
	}

	return model, nil
}

func stringValue(attr *hcl.Attribute, filename string) (string, error) {
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diagError(filename, diags)
	}
	if value.Type() != cty.String {
		return "", errors.Newf(errors.TypeParsing, "%s:%d: attribute %q must be a string",
			filename, attr.Range.Start.Line, attr.Name)
	}
	return value.AsString(), nil
}

func stringList(attr *hcl.Attribute, filename string) ([]string, error) {
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}
	if !value.CanIterateElements() {
		return nil, errors.Newf(errors.TypeParsing, "%s:%d: attribute %q must be a list of strings",
			filename, attr.Range.Start.Line, attr.Name)
	}

	var out []string
	for it := value.ElementIterator(); it.Next(); {
		_, element := it.Element()
		if element.Type() != cty.String {
			return nil, errors.Newf(errors.TypeParsing, "%s:%d: attribute %q must contain only strings",
				filename, attr.Range.Start.Line, attr.Name)
		}
		out = append(out, element.AsString())
	}
	return out, nil
}

func diagError(filename string, diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		return errors.Newf(errors.TypeParsing, "%s:%d: %s: %s", filename, line, diag.Summary, diag.Detail)
	}
	return errors.Parsing(filename, diags)
}
