package collection

import (
	"encoding/json"
	"fmt"
)

// Document is an unstructured record: a JSON-shaped value, typically a
// map[string]any produced by decoding JSON. It can nest maps, slices, and
// the usual JSON primitives.
type Document = map[string]any

// JSONRecord wraps a Document so it can live inside a Collection. Raw
// Documents are not comparable (they embed maps), so JSONRecord carries a
// canonical JSON encoding alongside the value and uses that encoding for
// equality and hashing; two JSONRecords with differently-ordered map keys
// but the same logical content compare equal.
type JSONRecord struct {
	key   string
	value string // canonical JSON encoding of the document, doubles as the comparable payload
}

// NewJSONRecord canonicalizes doc and wraps it in a JSONRecord. Returns an
// error if doc contains values json.Marshal cannot encode.
func NewJSONRecord(doc Document) (JSONRecord, error) {
	canonical, err := toCanonicalForm(doc)
	if err != nil {
		return JSONRecord{}, fmt.Errorf("canonicalizing document: %w", err)
	}
	bytes, err := json.Marshal(canonical)
	if err != nil {
		return JSONRecord{}, fmt.Errorf("marshaling document: %w", err)
	}
	s := string(bytes)
	return JSONRecord{key: s, value: s}, nil
}

// Document decodes the record back into a Document.
func (r JSONRecord) Document() (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(r.value), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return doc, nil
}

// String returns the record's canonical JSON encoding.
func (r JSONRecord) String() string { return r.value }

// toCanonicalForm walks doc and normalizes it into a form that produces a
// deterministic JSON encoding regardless of map iteration order:
// encoding/json already sorts map[string]any keys on Marshal, so the walk
// exists to reject values that would marshal inconsistently or not at all,
// and to leave slices in their given order (order is semantic for JSON
// arrays, so it is never touched).
func toCanonicalForm(val any) (any, error) {
	switch v := val.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, sub := range v {
			canon, err := toCanonicalForm(sub)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			result[k] = canon
		}
		return result, nil
	case []any:
		result := make([]any, len(v))
		for i, sub := range v {
			canon, err := toCanonicalForm(sub)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			result[i] = canon
		}
		return result, nil
	default:
		return v, nil
	}
}
