// Package builtin loads the fixed runtime-symbol and builtin-class
// manifest (§6 of the specification) and exposes it as a
// context.BuiltinProvider: the registry every Context's root layer
// falls back to once a lookup exhausts user-declared scopes.
//
// Grounded on funvibe-funxy/internal/modules/virtual_packages_core.go's
// declarative registration of built-in module symbols, adapted from Go
// const tables to an embedded YAML manifest in the style of
// internal/ext/config.go's yaml-tagged Config struct.
package builtin

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/corelang/hirc/internal/hir"
	"github.com/corelang/hirc/internal/source"
)

//go:embed manifest.yaml
var manifestYAML []byte

type manifestClass struct {
	Name     string   `yaml:"name"`
	Tag      string   `yaml:"tag"`
	Generics []string `yaml:"generics"`
}

type manifestParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type manifestFunction struct {
	Name    string          `yaml:"name"`
	Format  string          `yaml:"format"`
	Params  []manifestParam `yaml:"params"`
	Returns string          `yaml:"returns"`
}

type manifest struct {
	Classes   []manifestClass    `yaml:"classes"`
	Functions []manifestFunction `yaml:"functions"`
}

var tagByName = map[string]hir.BuiltinTag{
	"none":          hir.BuiltinNone,
	"bool":          hir.BuiltinBool,
	"i32":           hir.BuiltinI32,
	"f64":           hir.BuiltinF64,
	"integer":       hir.BuiltinInteger,
	"rational":      hir.BuiltinRational,
	"string":        hir.BuiltinString,
	"reference":     hir.BuiltinReference,
	"reference_mut": hir.BuiltinReferenceMut,
}

// Registry is the parsed manifest: every builtin class and runtime
// function, indexed the same way a Module indexes user declarations so
// FindType/FindFunctionsWithFormat can delegate to it uniformly.
type Registry struct {
	classes           map[string]*hir.Class
	functionsByFormat map[string][]*hir.Function
}

// Load parses the embedded manifest into a Registry. It only fails if
// the embedded YAML itself is malformed, which would be a build-time
// defect, not a runtime/user error — callers besides package init (e.g.
// tests exercising a hand-edited manifest copy) should still check it.
func Load() (*Registry, error) {
	var m manifest
	if err := yaml.Unmarshal(manifestYAML, &m); err != nil {
		return nil, fmt.Errorf("builtin: parsing manifest: %w", err)
	}

	r := &Registry{
		classes:           make(map[string]*hir.Class),
		functionsByFormat: make(map[string][]*hir.Function),
	}

	for _, mc := range m.Classes {
		tag, ok := tagByName[mc.Tag]
		if !ok {
			return nil, fmt.Errorf("builtin: unknown class tag %q for %s", mc.Tag, mc.Name)
		}
		class := hir.NewBuiltinClass(mc.Name, tag)
		for _, g := range mc.Generics {
			class.Generics = append(class.Generics, hir.NewGeneric(source.New(g, source.Location{}), nil))
		}
		r.classes[mc.Name] = class
	}

	for _, mf := range m.Functions {
		returns, ok := r.classes[mf.Returns]
		if !ok {
			return nil, fmt.Errorf("builtin: function %s returns unknown class %q", mf.Name, mf.Returns)
		}
		var parts []hir.NamePart
		if mf.Format != "" {
			parts = parseFormat(mf.Format, mf.Params, r.classes)
		} else {
			// Plain-name builtins (no `<>` in their manifest format) still
			// carry their parameters as trailing slots so the resolver can
			// match argument lists; they just render with the bare name as
			// their sole text part followed by parameter slots.
			parts = []hir.NamePart{hir.TextPart(mf.Name)}
			for _, p := range mf.Params {
				pt, ok := r.classes[p.Type]
				if !ok {
					return nil, fmt.Errorf("builtin: function %s param %s has unknown type %q", mf.Name, p.Name, p.Type)
				}
				parts = append(parts, hir.ParamPart(&hir.Parameter{
					Name: source.New(p.Name, source.Location{}),
					Type: pt,
				}))
			}
		}

		f := hir.NewFunction(parts, source.Location{})
		f.ReturnType = returns
		f.RuntimeName = mf.Name
		f.IsBuiltin = true
		format := f.NameFormat()
		r.functionsByFormat[format] = append(r.functionsByFormat[format], f)
	}

	return r, nil
}

func parseFormat(format string, params []manifestParam, classes map[string]*hir.Class) []hir.NamePart {
	var parts []hir.NamePart
	pi := 0
	word := ""
	flush := func() {
		if word != "" {
			parts = append(parts, hir.TextPart(word))
			word = ""
		}
	}
	i := 0
	for i < len(format) {
		if format[i] == '<' && i+1 < len(format) && format[i+1] == '>' {
			flush()
			if pi < len(params) {
				p := params[pi]
				pi++
				parts = append(parts, hir.ParamPart(&hir.Parameter{
					Name: source.New(p.Name, source.Location{}),
					Type: classes[p.Type],
				}))
			}
			i += 2
			continue
		}
		if format[i] == ' ' {
			flush()
			i++
			continue
		}
		word += string(format[i])
		i++
	}
	flush()
	return parts
}

// Type implements context.BuiltinProvider.
func (r *Registry) Type(name string) (hir.Type, bool) {
	c, ok := r.classes[name]
	if !ok {
		return nil, false
	}
	return c, true
}

// FunctionsWithFormat implements context.BuiltinProvider.
func (r *Registry) FunctionsWithFormat(format string) []*hir.Function {
	return r.functionsByFormat[format]
}

// Class returns a builtin class by name, for callers (the lowering pass
// recognizing literal types, the checker's convertibility rules) that
// need the concrete *hir.Class rather than the Type interface.
func (r *Registry) Class(name string) (*hir.Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}
