package goquery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const linkedDataSelector = `script[type="application/ld+json"]`

// FindLinkedData returns the first JSON-LD object in doc whose @type is typ.
// Blocks may hold a single object, an array of objects or an @graph
// container. Blocks that fail to parse are skipped, since pages commonly
// carry several unrelated metadata blocks.
func FindLinkedData(doc *goquery.Document, typ string) (map[string]any, bool) {
	var found map[string]any
	doc.Find(linkedDataSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, obj := range parseLinkedData(s.Text()) {
			if hasType(obj, typ) {
				found = obj
				return false
			}
		}
		return true
	})
	return found, found != nil
}

// parseLinkedData decodes one script block into its top-level objects.
// It returns nil for malformed blocks.
func parseLinkedData(raw string) []map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}

	var objects []map[string]any
	var collect func(any)
	collect = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			objects = append(objects, t)
			if graph, ok := t["@graph"].([]any); ok {
				for _, g := range graph {
					collect(g)
				}
			}
		case []any:
			for _, e := range t {
				collect(e)
			}
		}
	}
	collect(v)
	return objects
}

// hasType reports whether obj declares typ, either as a string @type or as
// one entry of an array @type.
func hasType(obj map[string]any, typ string) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == typ
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && s == typ {
				return true
			}
		}
	}
	return false
}

// object returns obj[key] as an object. A non-empty array yields its first
// element, matching how "offers" is published as either shape.
func object(obj map[string]any, key string) map[string]any {
	switch t := obj[key].(type) {
	case map[string]any:
		return t
	case []any:
		if len(t) > 0 {
			if m, ok := t[0].(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// stringValue returns obj[key] rendered as a string.
// Numbers keep their literal form so large ids survive unchanged.
func stringValue(obj map[string]any, key string) (string, bool) {
	if obj == nil {
		return "", false
	}
	switch t := obj[key].(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// stringValues returns obj[key] as a list of strings. A single string
// becomes a one-element list; objects contribute their "url" field.
func stringValues(obj map[string]any, key string) []string {
	var out []string
	add := func(v any) {
		switch t := v.(type) {
		case string:
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		case map[string]any:
			if u, ok := stringValue(t, "url"); ok {
				out = append(out, u)
			}
		}
	}
	switch t := obj[key].(type) {
	case []any:
		for _, e := range t {
			add(e)
		}
	default:
		add(t)
	}
	return out
}

// floatValue returns obj[key] as a number. Present values that cannot be
// coerced are reported as an error so callers can reject the record.
func floatValue(obj map[string]any, key string) (float64, bool, error) {
	if obj == nil {
		return 0, false, nil
	}
	var raw string
	switch t := obj[key].(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		raw = t.String()
	case string:
		raw = strings.TrimSpace(t)
		if raw == "" {
			return 0, false, nil
		}
	default:
		return 0, false, fmt.Errorf("%s: unexpected type %T", key, t)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return f, true, nil
}

// intValue is floatValue truncated to an integer.
func intValue(obj map[string]any, key string) (int64, bool, error) {
	f, ok, err := floatValue(obj, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	return int64(f), true, nil
}
