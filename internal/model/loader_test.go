package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testDecls = `
sources:
  - name: blog
    models:
      - name: BlogPage
        fields:
          - {name: intro, type: char}
        stream_fields:
          - name: body
            blocks:
              - {name: heading, kind: char}
              - name: gallery
                kind: struct
                children:
                  - {name: caption, kind: char}
                  - {name: advert, kind: snippet, target: catalog.Advert}
      - name: ContactPage
        kind: form
        form_fields:
          - {name: email, type: email, required: true}
      - name: SocialSettings
        kind: setting
        verbose_name: social settings
snippets:
  - app: catalog
    name: Advert
    fields:
      - {name: url, type: char}
`

func TestDecodeDeclarations(t *testing.T) {
	p, err := DecodeDeclarations([]byte(testDecls))
	require.NoError(t, err)

	blog := p.SourceModels("blog")
	require.Len(t, blog, 2) // BlogPage and ContactPage; settings register separately

	var page *ModelClass
	for _, c := range blog {
		if c.Name == "BlogPage" {
			page = c
		}
	}
	require.NotNil(t, page)
	require.Equal(t, KindPage, page.Kind, "kind defaults to page for source models")
	require.Len(t, page.StreamFields, 1)

	gallery := page.StreamFields[0].Blocks[1]
	require.Equal(t, BlockStruct, gallery.Kind)
	require.Len(t, gallery.Children, 2)
	require.Equal(t, "catalog.Advert", gallery.Children[1].Target)

	snippets := p.SnippetModels()
	require.Len(t, snippets, 1)
	require.Equal(t, "catalog.Advert", snippets[0].Key())

	settings := p.SettingModels()
	require.Len(t, settings, 1)
	require.Equal(t, "social settings", settings[0].VerboseName)
}

func TestDecodeDeclarationsRejectsUnknownKind(t *testing.T) {
	_, err := DecodeDeclarations([]byte(`
sources:
  - name: blog
    models:
      - {name: X, kind: widget}
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "widget")
}

func TestDecodeDeclarationsRequiresNames(t *testing.T) {
	_, err := DecodeDeclarations([]byte("sources:\n  - models: [{name: X}]\n"))
	require.Error(t, err)

	_, err = DecodeDeclarations([]byte("snippets:\n  - {name: Advert}\n"))
	require.Error(t, err)
}
