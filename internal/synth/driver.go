package synth

import (
	"github.com/pagegraph/pagegraph/internal/config"
	"github.com/pagegraph/pagegraph/internal/model"
)

// DefaultPrefix is the node-name prefix template used when a source has
// no explicit prefix configured.
const DefaultPrefix = "{app}"

// settingsSource is the well-known source name under which setting-kind
// classes register, regardless of the app that declares them.
const settingsSource = "settings"

// RegisterSource synthesizes and registers every class visible to the
// named content source: all snippet classes plus the source's own
// classes, deduplicated, nils dropped. The seen-guard is per call; a
// second call with overlapping classes overwrites silently, so callers
// register each source exactly once.
func (s *Synthesizer) RegisterSource(app, prefixTmpl, urlPrefix string) {
	snippets := s.provider.SnippetModels()
	classes := make([]*model.ModelClass, 0, len(snippets))
	snippetSet := make(map[*model.ModelClass]struct{}, len(snippets))
	for _, cls := range snippets {
		classes = append(classes, cls)
		if cls != nil {
			snippetSet[cls] = struct{}{}
		}
	}
	classes = append(classes, s.provider.SourceModels(app)...)

	seen := make(map[string]struct{})
	for _, cls := range classes {
		if cls == nil {
			continue
		}
		_, isSnippet := snippetSet[cls]
		s.registerClass(seen, cls, isSnippet, app, prefixTmpl, urlPrefix)
	}
}

// registerClass classifies one class and dispatches to the matching
// builder. Precedence: snippet > form > page > setting > generic record.
func (s *Synthesizer) registerClass(seen map[string]struct{}, cls *model.ModelClass, isSnippet bool, app, prefixTmpl, urlPrefix string) {
	key := cls.Key()
	if _, ok := seen[key]; ok {
		return
	}

	if prefixTmpl == "" {
		prefixTmpl = DefaultPrefix
	}
	node := expandPrefix(prefixTmpl, app, cls.Name) + cls.Name

	params := newTypeParams()
	s.addStreamFields(cls, node, params)

	switch {
	case isSnippet:
		s.addSnippet(cls, node, params)
	case cls.Kind == model.KindForm:
		s.addForm(cls, node, params, urlPrefix)
	case cls.Kind == model.KindPage:
		s.addPage(cls, node, params)
	case cls.Kind == model.KindSetting:
		s.addSetting(cls, node, params)
	default:
		s.addRecord(cls, node, params)
	}

	seen[key] = struct{}{}
}

// RegisterAll runs the whole registration pass from configuration: the
// well-known settings source first when any setting class exists, then
// every configured source with its own prefix and the shared URL prefix.
func (s *Synthesizer) RegisterAll(cfg *config.Config) {
	if len(s.provider.SettingModels()) > 0 {
		s.registerSettingsSource(cfg.URLPrefix)
	}
	for _, app := range cfg.Apps {
		s.RegisterSource(app, cfg.PrefixFor(app), cfg.URLPrefix)
	}
}

// registerSettingsSource registers every setting-kind class under the
// well-known settings source name.
func (s *Synthesizer) registerSettingsSource(urlPrefix string) {
	seen := make(map[string]struct{})
	for _, cls := range s.provider.SettingModels() {
		if cls == nil {
			continue
		}
		s.registerClass(seen, cls, false, settingsSource, DefaultPrefix, urlPrefix)
	}
}
