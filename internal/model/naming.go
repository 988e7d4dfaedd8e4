package model

import (
	"strings"
	"unicode"
)

// CapFirst upper-cases the first rune of s.
func CapFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// TitleSnake converts a snake_case name to PascalCase ("body_text" -> "BodyText").
func TitleSnake(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(CapFirst(p))
	}
	return b.String()
}

// SnakeToCamel converts a snake_case name to camelCase ("url_path" -> "urlPath").
func SnakeToCamel(s string) string {
	return LowerFirst(TitleSnake(s))
}

// CamelToSnake converts a camelCase or PascalCase name to snake_case
// ("urlPath" -> "url_path").
func CamelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CamelToSpaced converts a PascalCase class name to a lower-cased,
// space-separated phrase ("BlogPage" -> "blog page").
func CamelToSpaced(s string) string {
	return strings.ReplaceAll(CamelToSnake(s), "_", " ")
}
