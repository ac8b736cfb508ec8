package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Locale is the active display language. Only Indonesian and English exist.
type Locale string

const (
	// Indonesian is the primary language and the default.
	Indonesian Locale = "id"
	// English is the secondary language.
	English Locale = "en"
)

// Primary is the locale used when no valid preference is stored.
const Primary = Indonesian

// Locales lists the supported locales, primary first.
var Locales = []Locale{Indonesian, English}

// ParseLocale accepts exactly "id" or "en" (case-insensitive, trimmed).
func ParseLocale(raw string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case Indonesian:
		return Indonesian, true
	case English:
		return English, true
	default:
		return "", false
	}
}

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	return l == Indonesian || l == English
}

// String implements fmt.Stringer.
func (l Locale) String() string { return string(l) }

// Tag returns the BCP 47 tag used for <html lang> and hreflang.
func (l Locale) Tag() language.Tag {
	if l == English {
		return language.AmericanEnglish
	}
	return language.MustParse("id-ID")
}

// Other returns the locale that is not l.
func (l Locale) Other() Locale {
	if l == English {
		return Indonesian
	}
	return English
}

//go:embed locales/messages.yaml
var embedded embed.FS

// Bundle is the immutable key -> {id, en} dictionary.
type Bundle struct {
	dict map[string]map[Locale]string
}

// LoadEmbedded loads the dictionary compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFS(embedded, "locales/messages.yaml")
}

// MustLoadEmbedded panics when the embedded dictionary is malformed.
func MustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return b
}

// LoadFS parses a YAML dictionary file from fsys.
func LoadFS(fsys fs.FS, path string) (*Bundle, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse builds a bundle from YAML of the form `key: {id: ..., en: ...}`.
func Parse(raw []byte) (*Bundle, error) {
	var m map[string]map[string]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal dictionary: %w", err)
	}
	b := &Bundle{dict: make(map[string]map[Locale]string, len(m))}
	for key, entry := range m {
		texts := make(map[Locale]string, len(entry))
		for code, text := range entry {
			l, ok := ParseLocale(code)
			if !ok {
				return nil, fmt.Errorf("dictionary key %q: unsupported locale %q", key, code)
			}
			texts[l] = text
		}
		b.dict[key] = texts
	}
	return b, nil
}

// T returns the text for key in l, or key itself when there is no such text.
func (b *Bundle) T(l Locale, key string) string {
	if b == nil {
		return key
	}
	if texts, ok := b.dict[key]; ok {
		if v, ok := texts[l]; ok && v != "" {
			return v
		}
	}
	return key
}

// Has reports whether key exists in the dictionary.
func (b *Bundle) Has(key string) bool {
	if b == nil {
		return false
	}
	_, ok := b.dict[key]
	return ok
}

// Keys returns every dictionary key in sorted order.
func (b *Bundle) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.dict))
	for k := range b.dict {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
