package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pagegraph/pagegraph/internal/model"
)

// Dataset is the YAML document backing a file-based in-memory source.
type Dataset struct {
	Site    *SiteDecl    `yaml:"site"`
	Pages   []RecordDecl `yaml:"pages"`
	Records []RecordDecl `yaml:"records"`
}

type SiteDecl struct {
	ID         int    `yaml:"id"`
	Hostname   string `yaml:"hostname"`
	Port       int    `yaml:"port"`
	SiteName   string `yaml:"site_name"`
	RootPageID int    `yaml:"root_page_id"`
}

type RecordDecl struct {
	ID          int            `yaml:"id"`
	ContentType string         `yaml:"content_type"`
	Title       string         `yaml:"title"`
	Slug        string         `yaml:"slug"`
	Path        string         `yaml:"path"`
	URLPath     string         `yaml:"url_path"`
	SEOTitle    string         `yaml:"seo_title"`
	Depth       int            `yaml:"depth"`
	Numchild    int            `yaml:"numchild"`
	Live        bool           `yaml:"live"`
	ShowInMenus bool           `yaml:"show_in_menus"`
	Data        map[string]any `yaml:"data"`

	// Streams holds stream-field values as ordered block lists; they land
	// in the record's data map as typed blocks.
	Streams map[string][]BlockDecl `yaml:"streams"`
}

type BlockDecl struct {
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

// LoadDataset reads a dataset file into an in-memory source.
func LoadDataset(path string) (*InMemory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return DecodeDataset(data)
}

// DecodeDataset decodes a YAML dataset into an in-memory source.
func DecodeDataset(data []byte) (*InMemory, error) {
	var doc Dataset
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	src := NewInMemory()
	if doc.Site != nil {
		src.SetSite(&model.Site{
			ID:         doc.Site.ID,
			Hostname:   doc.Site.Hostname,
			Port:       doc.Site.Port,
			SiteName:   doc.Site.SiteName,
			RootPageID: doc.Site.RootPageID,
		})
	}
	for _, decl := range doc.Pages {
		rec, err := buildRecord(decl)
		if err != nil {
			return nil, err
		}
		src.AddPage(rec)
	}
	for _, decl := range doc.Records {
		rec, err := buildRecord(decl)
		if err != nil {
			return nil, err
		}
		src.AddRecord(rec)
	}
	return src, nil
}

func buildRecord(decl RecordDecl) (*model.Record, error) {
	if decl.ContentType == "" {
		return nil, fmt.Errorf("dataset: record id=%d has no content_type", decl.ID)
	}
	data := make(map[string]any, len(decl.Data)+len(decl.Streams))
	for k, v := range decl.Data {
		data[k] = v
	}
	for name, blocks := range decl.Streams {
		value := make([]model.Block, 0, len(blocks))
		for _, blk := range blocks {
			value = append(value, model.Block{Type: blk.Type, Value: blk.Value})
		}
		data[name] = value
	}
	return &model.Record{
		ID:          decl.ID,
		ContentType: decl.ContentType,
		Title:       decl.Title,
		Slug:        decl.Slug,
		Path:        decl.Path,
		URLPath:     decl.URLPath,
		SEOTitle:    decl.SEOTitle,
		Depth:       decl.Depth,
		Numchild:    decl.Numchild,
		Live:        decl.Live,
		ShowInMenus: decl.ShowInMenus,
		Data:        data,
	}, nil
}
