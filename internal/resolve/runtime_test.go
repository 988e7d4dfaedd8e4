package resolve

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pagegraph/pagegraph/internal/config"
	"github.com/pagegraph/pagegraph/internal/forms"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/permission"
	"github.com/pagegraph/pagegraph/internal/registry"
	"github.com/pagegraph/pagegraph/internal/source"
	"github.com/pagegraph/pagegraph/internal/synth"
)

func testModels(t *testing.T) *model.StaticProvider {
	t.Helper()
	provider, err := model.DecodeDeclarations([]byte(`
sources:
  - name: blog
    models:
      - name: BlogPage
        fields:
          - {name: intro, type: char}
      - name: ContactPage
        kind: form
        form_fields:
          - {name: email, type: email, required: true}
  - name: catalog
    models:
      - name: SocialSettings
        kind: setting
        verbose_name: social settings
        fields:
          - {name: twitter, type: char}
snippets:
  - app: catalog
    name: Advert
    fields:
      - {name: url, type: char}
      - {name: text, type: char}
`))
	require.NoError(t, err)
	return provider
}

func testSource() *source.InMemory {
	page := func(id int, ct, title, slug, path, url string, depth int, menus bool) *model.Record {
		return &model.Record{
			ID: id, ContentType: ct, Title: title, Slug: slug,
			Path: path, URLPath: url, Depth: depth,
			Live: true, ShowInMenus: menus,
			Data: map[string]any{"intro": "hi"},
		}
	}
	src := source.NewInMemory().
		AddPage(page(1, "blog.BlogPage", "Home", "home", "0001", "/home/", 1, true)).
		AddPage(page(2, "blog.BlogPage", "About", "about", "00010001", "/home/about/", 2, true)).
		AddPage(page(3, "blog.ContactPage", "Contact", "contact", "00010002", "/home/contact/", 2, false)).
		AddRecord(&model.Record{ID: 7, ContentType: "catalog.Advert", Data: map[string]any{"url": "u", "text": "t"}}).
		AddRecord(&model.Record{ID: 1, ContentType: "catalog.SocialSettings", Data: map[string]any{"twitter": "@example"}}).
		SetSite(&model.Site{ID: 1, Hostname: "localhost", Port: 80, SiteName: "Example"})

	draft := page(4, "blog.BlogPage", "Draft", "draft", "00010003", "/home/draft/", 2, true)
	draft.Live = false
	return src.AddPage(draft)
}

func newTestRuntime(t *testing.T, filter permission.Filter) (*Runtime, *registry.Registry, *source.InMemory) {
	t.Helper()
	cfg, err := config.Decode([]byte("apps: [blog, catalog]\nprefix: \"{app}\"\nurl_prefix: /home/\n"))
	require.NoError(t, err)

	reg := registry.New()
	src := testSource()
	syn := synth.New(reg, testModels(t), src, filter, forms.NewRuleEngine())
	syn.RegisterAll(cfg)
	reg.Freeze()

	return NewRuntime(reg, src, filter, cfg.URLPrefix), reg, src
}

func TestPageByID(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	got, err := rt.ResolveField(context.Background(), "Query", "page", nil, map[string]any{"id": 2}, nil)
	require.NoError(t, err)
	require.Equal(t, "About", got.(*model.Record).Title)
}

func TestPageByURL(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	for _, url := range []string{"about", "about/", "/about", "/about/"} {
		got, err := rt.ResolveField(context.Background(), "Query", "page", nil, map[string]any{"url": url}, nil)
		require.NoError(t, err, "url %q", url)
		require.Equal(t, "About", got.(*model.Record).Title, "url %q", url)
	}

	got, err := rt.ResolveField(context.Background(), "Query", "page", nil, map[string]any{"url": "missing"}, nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPageArgExclusivity(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	_, err := rt.ResolveField(context.Background(), "Query", "page", nil, map[string]any{}, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = rt.ResolveField(context.Background(), "Query", "page", nil, map[string]any{"id": 2, "url": "about"}, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPageExcludesDrafts(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	got, err := rt.ResolveField(context.Background(), "Query", "page", nil, map[string]any{"id": 4}, nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPagesChildren(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	got, err := rt.ResolveField(context.Background(), "Query", "pages", nil, map[string]any{"parent": 1}, nil)
	require.NoError(t, err)
	recs := got.([]any)
	var titles []string
	for _, rec := range recs {
		titles = append(titles, rec.(*model.Record).Title)
	}
	if diff := cmp.Diff([]string{"About", "Contact"}, titles); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestPagesParentNotFound(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	_, err := rt.ResolveField(context.Background(), "Query", "pages", nil, map[string]any{"parent": 99}, nil)
	require.ErrorIs(t, err, source.ErrNotFound)
}

// Only joins both requested by the selection and registered as prefetch
// fields reach the fetch plan.
func TestPagesSelectivePrefetch(t *testing.T) {
	rt, _, src := newTestRuntime(t, nil)

	_, err := rt.ResolveField(context.Background(), "Query", "pages", nil, map[string]any{}, []string{"title", "BlogBlogPage"})
	require.NoError(t, err)
	require.Equal(t, []string{"blogpage"}, src.LastPrefetch)

	_, err = rt.ResolveField(context.Background(), "Query", "pages", nil, map[string]any{}, []string{"title", "slug"})
	require.NoError(t, err)
	require.Empty(t, src.LastPrefetch)
}

func TestShowInMenus(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	got, err := rt.ResolveField(context.Background(), "Query", "showInMenus", nil, nil, nil)
	require.NoError(t, err)
	recs := got.([]any)
	var ids []int
	for _, rec := range recs {
		ids = append(ids, rec.(*model.Record).ID)
	}
	// Draft page 4 is menu-flagged but not live.
	require.Equal(t, []int{1, 2}, ids)
}

func TestRootSuperuserOnly(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	got, err := rt.ResolveField(context.Background(), "Query", "root", nil, nil, nil)
	require.NoError(t, err)
	require.Nil(t, got)

	ctx := permission.WithUser(context.Background(), &model.User{Username: "u"})
	got, err = rt.ResolveField(ctx, "Query", "root", nil, nil, nil)
	require.NoError(t, err)
	require.Nil(t, got)

	ctx = permission.WithUser(context.Background(), &model.User{Username: "root", Superuser: true})
	got, err = rt.ResolveField(ctx, "Query", "root", nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "Example", got.(*model.Site).SiteName)
}

func TestSettingsLookup(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	got, err := rt.ResolveField(context.Background(), "Query", "settings", nil, map[string]any{"name": "Social settings"}, nil)
	require.NoError(t, err)
	require.Equal(t, "catalog.SocialSettings", got.(*model.Record).ContentType)

	_, err = rt.ResolveField(context.Background(), "Query", "settings", nil, map[string]any{"name": "Nope"}, nil)
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestSnippetRootField(t *testing.T) {
	rt, reg, _ := newTestRuntime(t, nil)

	snippets := reg.Snippets()
	require.Len(t, snippets, 1)
	field := model.LowerFirst(snippets[0].Name)

	got, err := rt.ResolveField(context.Background(), "Query", field, nil, nil, nil)
	require.NoError(t, err)
	recs := got.([]any)
	require.Len(t, recs, 1)
	require.Equal(t, 7, recs[0].(*model.Record).ID)
}

func TestResolveTypeRoundTrip(t *testing.T) {
	rt, reg, _ := newTestRuntime(t, nil)

	for _, tp := range reg.Pages() {
		rec := &model.Record{ID: 1, ContentType: tp.Class.Key()}
		name, err := rt.ResolveType(context.Background(), synth.PageInterfaceName, rec)
		require.NoError(t, err)
		require.Equal(t, tp.Name, name)
	}

	_, err := rt.ResolveType(context.Background(), synth.PageInterfaceName, &model.Record{ContentType: "no.Such"})
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestResolveConcreteValueBareID(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	got, err := rt.ResolveConcreteValue(context.Background(), synth.PageInterfaceName, 2)
	require.NoError(t, err)
	require.Equal(t, "About", got.(*model.Record).Title)

	_, err = rt.ResolveConcreteValue(context.Background(), synth.PageInterfaceName, 99)
	require.ErrorIs(t, err, source.ErrNotFound)
}

func TestURLPathStripped(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	rec := &model.Record{ID: 2, ContentType: "blog.BlogPage", URLPath: "/home/about/"}
	got, err := rt.ResolveField(context.Background(), "BlogBlogPage", "urlPath", rec, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "about", got)
}

func TestDataFieldFallback(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)

	rec := &model.Record{ID: 2, ContentType: "blog.BlogPage", Data: map[string]any{"intro": "hi"}}
	got, err := rt.ResolveField(context.Background(), "BlogBlogPage", "intro", rec, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hi", got)
}

func TestPermissionFilterApplied(t *testing.T) {
	superOnly := func(user *model.User, recs []*model.Record) []*model.Record {
		if user != nil && user.Superuser {
			return recs
		}
		return nil
	}
	rt, _, _ := newTestRuntime(t, superOnly)

	got, err := rt.ResolveField(context.Background(), "Query", "pages", nil, map[string]any{}, nil)
	require.NoError(t, err)
	require.Empty(t, got)

	ctx := permission.WithUser(context.Background(), &model.User{Username: "root", Superuser: true})
	got, err = rt.ResolveField(ctx, "Query", "pages", nil, map[string]any{}, nil)
	require.NoError(t, err)
	require.Len(t, got.([]any), 3)
}

func TestSerializeLeaf(t *testing.T) {
	rt, _, _ := newTestRuntime(t, nil)
	ctx := context.Background()

	got, err := rt.SerializeLeaf(ctx, "Int", float64(3))
	require.NoError(t, err)
	require.Equal(t, 3, got)

	got, err = rt.SerializeLeaf(ctx, "String", model.FieldChar)
	require.NoError(t, err)
	require.Equal(t, "char", got)

	payload := map[string]any{"k": "v"}
	got, err = rt.SerializeLeaf(ctx, "JSON", payload)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	_, err = rt.SerializeLeaf(ctx, "Int", "nope")
	require.Error(t, err)
}
