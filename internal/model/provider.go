package model

// Provider enumerates the model classes known to the process. A content
// source ("app") groups classes registered together; snippet classes are
// enumerated globally, the way the registration driver consumes them.
type Provider interface {
	// SnippetModels returns every snippet-kind class, in declaration order.
	SnippetModels() []*ModelClass
	// SourceModels returns the classes belonging to the named source, in
	// declaration order. Setting classes are excluded: they register once
	// through the well-known settings source. Unknown sources yield an
	// empty slice.
	SourceModels(app string) []*ModelClass
	// SettingModels returns every setting-kind class across all sources.
	SettingModels() []*ModelClass
}

// StaticProvider is a Provider over a fixed in-memory class list.
type StaticProvider struct {
	classes []*ModelClass
}

// NewStaticProvider builds a provider from the given classes. Nil entries
// are preserved so that drivers can exercise their nil-dropping path.
func NewStaticProvider(classes ...*ModelClass) *StaticProvider {
	return &StaticProvider{classes: classes}
}

func (p *StaticProvider) SnippetModels() []*ModelClass {
	var out []*ModelClass
	for _, c := range p.classes {
		if c != nil && c.Kind == KindSnippet {
			out = append(out, c)
		}
	}
	return out
}

func (p *StaticProvider) SourceModels(app string) []*ModelClass {
	var out []*ModelClass
	for _, c := range p.classes {
		if c == nil || (c.App == app && c.Kind != KindSetting) {
			out = append(out, c)
		}
	}
	return out
}

func (p *StaticProvider) SettingModels() []*ModelClass {
	var out []*ModelClass
	for _, c := range p.classes {
		if c != nil && c.Kind == KindSetting {
			out = append(out, c)
		}
	}
	return out
}
