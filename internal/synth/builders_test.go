package synth

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pagegraph/pagegraph/internal/source"
)

func addContactPage(src *source.InMemory) {
	src.AddPage(pageRecord(10, "blog.ContactPage", "Contact", "contact", "00010004", "/home/contact/", 2))
}

func TestFormMutationOK(t *testing.T) {
	reg, _, src, engine := newTestSynth(t)
	addContactPage(src)

	mt, err := reg.Form("BlogContactPageMutation")
	require.NoError(t, err)

	got, err := mt.Mutate(context.Background(), map[string]any{
		"url": "contact",
		"values": map[string]any{
			"name":  "Ada",
			"email": "ada@example.com",
		},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"result": "OK"}, got)

	subs := engine.Submissions()
	require.Len(t, subs, 1)
	require.Equal(t, 10, subs[0].PageID)
}

// The url argument is normalized against the serving prefix: trailing
// slashes are insignificant.
func TestFormMutationURLNormalization(t *testing.T) {
	reg, _, src, _ := newTestSynth(t)
	addContactPage(src)

	mt, err := reg.Form("BlogContactPageMutation")
	require.NoError(t, err)

	for _, url := range []string{"contact", "contact/", "contact///"} {
		got, err := mt.Mutate(context.Background(), map[string]any{
			"url":    url,
			"values": map[string]any{"name": "Ada", "email": "ada@example.com"},
		})
		require.NoError(t, err, "url %q", url)
		require.Equal(t, map[string]any{"result": "OK"}, got, "url %q", url)
	}
}

func TestFormMutationValidationErrors(t *testing.T) {
	reg, _, src, engine := newTestSynth(t)
	addContactPage(src)

	mt, err := reg.Form("BlogContactPageMutation")
	require.NoError(t, err)

	got, err := mt.Mutate(context.Background(), map[string]any{
		"url":    "contact",
		"values": map[string]any{"email": "not-an-email"},
	})
	require.NoError(t, err)

	want := map[string]any{
		"result": "FAIL",
		"errors": []any{
			map[string]any{"name": "name", "messages": []string{"This field is required."}},
			map[string]any{"name": "email", "messages": []string{"Enter a valid email address."}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutation result mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, engine.Submissions(), "failed submission must not be processed")
}

func TestFormMutationUnknownURL(t *testing.T) {
	reg, _, src, _ := newTestSynth(t)
	addContactPage(src)

	mt, err := reg.Form("BlogContactPageMutation")
	require.NoError(t, err)

	_, err = mt.Mutate(context.Background(), map[string]any{
		"url":    "nowhere",
		"values": map[string]any{"name": "Ada", "email": "ada@example.com"},
	})
	require.ErrorIs(t, err, source.ErrNotFound)
}

func TestFormFieldsResolver(t *testing.T) {
	reg, _, _, _ := newTestSynth(t)

	tp, err := reg.PageByClass("blog.ContactPage")
	require.NoError(t, err)
	got, err := tp.Resolvers["formFields"](context.Background(), nil)
	require.NoError(t, err)

	want := []any{
		map[string]any{"name": "name", "fieldType": "singleline"},
		map[string]any{"name": "email", "fieldType": "email"},
		map[string]any{"name": "message", "fieldType": "multiline"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form fields mismatch (-want +got):\n%s", diff)
	}
}
