package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Declarations is the YAML document describing content sources and their
// model classes.
type Declarations struct {
	Sources  []SourceDecl `yaml:"sources"`
	Snippets []ClassDecl  `yaml:"snippets"`
}

type SourceDecl struct {
	Name   string      `yaml:"name"`
	Models []ClassDecl `yaml:"models"`
}

type ClassDecl struct {
	App          string            `yaml:"app"` // only meaningful for top-level snippets
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind"`
	VerboseName  string            `yaml:"verbose_name"`
	Fields       []FieldDecl       `yaml:"fields"`
	StreamFields []StreamFieldDecl `yaml:"stream_fields"`
	FormFields   []FormFieldDecl   `yaml:"form_fields"`
}

type FieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type StreamFieldDecl struct {
	Name   string      `yaml:"name"`
	Blocks []BlockDecl `yaml:"blocks"`
}

type BlockDecl struct {
	Name     string      `yaml:"name"`
	Kind     string      `yaml:"kind"`
	Target   string      `yaml:"target"`
	Children []BlockDecl `yaml:"children"`
}

type FormFieldDecl struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
}

// LoadDeclarations reads and decodes a model declarations file.
func LoadDeclarations(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model declarations: %w", err)
	}
	return DecodeDeclarations(data)
}

// DecodeDeclarations decodes YAML model declarations into a provider.
func DecodeDeclarations(data []byte) (*StaticProvider, error) {
	var doc Declarations
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode model declarations: %w", err)
	}

	var classes []*ModelClass
	for _, src := range doc.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("model declarations: source with empty name")
		}
		for _, decl := range src.Models {
			cls, err := buildClass(src.Name, decl, KindPage)
			if err != nil {
				return nil, err
			}
			classes = append(classes, cls)
		}
	}
	for _, decl := range doc.Snippets {
		app := decl.App
		if app == "" {
			return nil, fmt.Errorf("model declarations: snippet %q needs an app", decl.Name)
		}
		cls, err := buildClass(app, decl, KindSnippet)
		if err != nil {
			return nil, err
		}
		cls.Kind = KindSnippet
		classes = append(classes, cls)
	}
	return NewStaticProvider(classes...), nil
}

func buildClass(app string, decl ClassDecl, fallback Kind) (*ModelClass, error) {
	if decl.Name == "" {
		return nil, fmt.Errorf("model declarations: class with empty name in %q", app)
	}
	kind := Kind(decl.Kind)
	if decl.Kind == "" {
		kind = fallback
	}
	switch kind {
	case KindPage, KindForm, KindSetting, KindSnippet, KindRecord:
	default:
		return nil, fmt.Errorf("model declarations: class %s.%s has unknown kind %q", app, decl.Name, decl.Kind)
	}

	cls := &ModelClass{
		App:         app,
		Name:        decl.Name,
		Kind:        kind,
		VerboseName: decl.VerboseName,
	}
	for _, f := range decl.Fields {
		cls.Fields = append(cls.Fields, FieldSpec{Name: f.Name, Type: FieldType(f.Type)})
	}
	for _, sf := range decl.StreamFields {
		spec := StreamFieldSpec{Name: sf.Name}
		for _, blk := range sf.Blocks {
			spec.Blocks = append(spec.Blocks, buildBlock(blk))
		}
		cls.StreamFields = append(cls.StreamFields, spec)
	}
	for _, ff := range decl.FormFields {
		cls.FormFields = append(cls.FormFields, FormFieldSpec{
			Name:      ff.Name,
			FieldType: ff.Type,
			Required:  ff.Required,
		})
	}
	return cls, nil
}

func buildBlock(decl BlockDecl) BlockSpec {
	spec := BlockSpec{
		Name:   decl.Name,
		Kind:   BlockKind(decl.Kind),
		Target: decl.Target,
	}
	for _, child := range decl.Children {
		spec.Children = append(spec.Children, buildBlock(child))
	}
	return spec
}
