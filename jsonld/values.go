package jsonld

import (
	"strconv"
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// JSON-LD values arrive as any of a scalar, a list or an object depending on
// the site. These helpers coerce them to the shape each field needs.

// text returns v as a string: strings as-is, numbers formatted, the first
// usable entry of a list, or an object's text, name or @value.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		for _, item := range t {
			if s := text(item); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, key := range []string{"text", "name", "@value"} {
			if s := text(t[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// texts returns every string found in v, flattening lists.
func texts(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, texts(item)...)
		}
		return out
	}
	if s := text(v); s != "" {
		return []string{s}
	}
	return nil
}

// splitTexts is texts with comma-separated strings split apart.
func splitTexts(v any) []string {
	var out []string
	for _, s := range texts(v) {
		out = append(out, cleanplate.SplitList(s)...)
	}
	return out
}

// number parses a JSON number or numeric string.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case []any:
		if len(t) > 0 {
			return number(t[0])
		}
	}
	return 0, false
}

// object returns v as an object, taking the first object of a list.
func object(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// typeNames returns the local names of a node's @type, which may be a
// string or a list and may be a prefixed IRI.
func typeNames(node map[string]any) []string {
	var names []string
	for _, t := range texts(node["@type"]) {
		if i := strings.LastIndexAny(t, "/:#"); i >= 0 {
			t = t[i+1:]
		}
		names = append(names, t)
	}
	return names
}

func hasType(node map[string]any, name string) bool {
	for _, t := range typeNames(node) {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}
