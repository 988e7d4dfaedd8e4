package synth

import (
	"testing"

	"github.com/pagegraph/pagegraph/internal/config"
	"github.com/pagegraph/pagegraph/internal/forms"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/registry"
	"github.com/pagegraph/pagegraph/internal/source"
)

// testClasses builds the model fixture shared by the synthesis tests: a
// blog source with a page and a form, a catalog source with a snippet and
// a settings class, and a generic record class.
func testClasses() []*model.ModelClass {
	blogPage := &model.ModelClass{
		App:  "blog",
		Name: "BlogPage",
		Kind: model.KindPage,
		Fields: []model.FieldSpec{
			{Name: "intro", Type: model.FieldChar},
			{Name: "rating", Type: model.FieldInt},
		},
		StreamFields: []model.StreamFieldSpec{{
			Name: "body",
			Blocks: []model.BlockSpec{
				{Name: "heading", Kind: model.BlockChar},
				{Name: "paragraph", Kind: model.BlockRichText},
				{Name: "advert", Kind: model.BlockSnippet, Target: "catalog.Advert"},
				{Name: "related_page", Kind: model.BlockPage},
			},
		}},
	}
	contactPage := &model.ModelClass{
		App:  "blog",
		Name: "ContactPage",
		Kind: model.KindForm,
		Fields: []model.FieldSpec{
			{Name: "thank_you_text", Type: model.FieldText},
		},
		FormFields: []model.FormFieldSpec{
			{Name: "name", FieldType: "singleline", Required: true},
			{Name: "email", FieldType: "email", Required: true},
			{Name: "message", FieldType: "multiline"},
		},
	}
	advert := &model.ModelClass{
		App:  "catalog",
		Name: "Advert",
		Kind: model.KindSnippet,
		Fields: []model.FieldSpec{
			{Name: "url", Type: model.FieldChar},
			{Name: "text", Type: model.FieldChar},
		},
	}
	socialSettings := &model.ModelClass{
		App:         "catalog",
		Name:        "SocialSettings",
		Kind:        model.KindSetting,
		VerboseName: "social settings",
		Fields: []model.FieldSpec{
			{Name: "twitter", Type: model.FieldChar},
		},
	}
	redirect := &model.ModelClass{
		App:  "misc",
		Name: "Redirect",
		Kind: model.KindRecord,
		Fields: []model.FieldSpec{
			{Name: "old_path", Type: model.FieldChar},
			{Name: "new_path", Type: model.FieldChar},
		},
	}
	return []*model.ModelClass{blogPage, contactPage, advert, socialSettings, redirect}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Decode([]byte(`
apps: [blog, catalog, misc]
prefix: "{app}"
url_prefix: /home/
`))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return cfg
}

// newTestSynth registers the fixture classes and returns the pieces the
// tests inspect.
func newTestSynth(t *testing.T) (*registry.Registry, *Synthesizer, *source.InMemory, *forms.RuleEngine) {
	t.Helper()
	reg := registry.New()
	src := source.NewInMemory()
	engine := forms.NewRuleEngine()
	syn := New(reg, model.NewStaticProvider(testClasses()...), src, nil, engine)
	syn.RegisterAll(testConfig(t))
	return reg, syn, src, engine
}

func pageRecord(id int, contentType, title, slug, path, urlPath string, depth int) *model.Record {
	return &model.Record{
		ID:          id,
		ContentType: contentType,
		Title:       title,
		Slug:        slug,
		Path:        path,
		URLPath:     urlPath,
		Depth:       depth,
		Live:        true,
		Data:        map[string]any{},
	}
}
