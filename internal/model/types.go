package model

// Kind classifies a content-model class.
type Kind string

const (
	KindPage    Kind = "page"
	KindForm    Kind = "form"
	KindSetting Kind = "setting"
	KindSnippet Kind = "snippet"
	KindRecord  Kind = "record"
)

// ModelClass describes one content-model class declared by a content source.
// Classes are definitions only; loaded content is represented by Record.
type ModelClass struct {
	App          string
	Name         string
	Kind         Kind
	VerboseName  string
	Fields       []FieldSpec
	StreamFields []StreamFieldSpec
	FormFields   []FormFieldSpec
}

// Key returns the content-type descriptor for the class ("app.ClassName").
// Records carry the same descriptor, which is how instances map back to
// their class at query time.
func (c *ModelClass) Key() string { return c.App + "." + c.Name }

// DisplayName returns the capitalized human-readable name of the class.
func (c *ModelClass) DisplayName() string {
	name := c.VerboseName
	if name == "" {
		name = CamelToSpaced(c.Name)
	}
	return CapFirst(name)
}

// FieldSpec is a scalar field on a model class.
type FieldSpec struct {
	Name string
	Type FieldType
}

// FieldType is the declared scalar type of a model field.
type FieldType string

const (
	FieldChar     FieldType = "char"
	FieldText     FieldType = "text"
	FieldRichText FieldType = "richtext"
	FieldInt      FieldType = "int"
	FieldFloat    FieldType = "float"
	FieldBool     FieldType = "bool"
	FieldDate     FieldType = "date"
	FieldDateTime FieldType = "datetime"
	FieldJSON     FieldType = "json"
)

// StreamFieldSpec is a structured rich-content field: its value is an
// ordered sequence of typed blocks.
type StreamFieldSpec struct {
	Name   string
	Blocks []BlockSpec
}

// BlockSpec declares one block kind available inside a stream field.
type BlockSpec struct {
	Name     string
	Kind     BlockKind
	Target   string      // class key for page/snippet reference blocks
	Children []BlockSpec // child blocks for struct blocks
}

// BlockKind is the declared type of one content block.
type BlockKind string

const (
	BlockChar     BlockKind = "char"
	BlockText     BlockKind = "text"
	BlockRichText BlockKind = "richtext"
	BlockInt      BlockKind = "int"
	BlockFloat    BlockKind = "float"
	BlockBool     BlockKind = "bool"
	BlockPage     BlockKind = "page"
	BlockSnippet  BlockKind = "snippet"
	BlockStruct   BlockKind = "struct"
)

// FormFieldSpec is one declared field of a form page.
type FormFieldSpec struct {
	Name      string
	FieldType string
	Required  bool
}

// Block is one raw content block inside a stream field value.
type Block struct {
	Type  string
	Value any
}

// Record is a loaded content instance. ContentType carries the descriptor
// of the most-specific class the record belongs to.
type Record struct {
	ID          int
	ContentType string
	Title       string
	Slug        string
	Path        string
	URLPath     string
	SEOTitle    string
	Depth       int
	Numchild    int
	Live        bool
	ShowInMenus bool
	Data        map[string]any
}

// Site is the current site projection returned by the root query field.
type Site struct {
	ID         int
	Hostname   string
	Port       int
	SiteName   string
	RootPageID int
}

// User is the acting principal for a request.
type User struct {
	Username  string
	Superuser bool
}
