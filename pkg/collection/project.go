package collection

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// KeyFunc extracts the grouping key a record should be indexed under, as a
// JSONPath query (e.g. "$.metadata.namespace") evaluated against the
// record's decoded Document. It is how join and reduce learn which field
// of a dynamic record is its key, since JSONRecord itself carries no
// notion of "the key field" the way Pair does.
type KeyFunc func(JSONRecord) (any, error)

// ByField returns a KeyFunc that projects the value at the given JSONPath
// query out of each record.
func ByField(query string) (KeyFunc, error) {
	expr, err := jp.ParseString(query)
	if err != nil {
		return nil, fmt.Errorf("parsing JSONPath %q: %w", query, err)
	}
	return func(r JSONRecord) (any, error) {
		doc, err := r.Document()
		if err != nil {
			return nil, err
		}
		values := expr.Get(doc)
		if len(values) == 0 {
			// no match: collapse onto the empty key, per KeyedBy's doc comment.
			return nil, nil
		}
		return values[0], nil
	}, nil
}

// KeyedBy re-keys c's JSONRecords into Pair[string, JSONRecord] records,
// using key to compute each record's string-encoded group key. Records for
// which key returns a nil value all collapse onto the empty-string key.
func KeyedBy(c *Collection[JSONRecord], key KeyFunc) (*Collection[Pair[string, JSONRecord]], error) {
	out := New[Pair[string, JSONRecord]]()
	for _, e := range c.Entries() {
		v, err := key(e.Record)
		if err != nil {
			return nil, fmt.Errorf("computing key: %w", err)
		}
		k, err := stringifyKey(v)
		if err != nil {
			return nil, err
		}
		out.add(Pair[string, JSONRecord]{Key: k, Value: e.Record}, e.Multiplicity)
	}
	return out, nil
}

func stringifyKey(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	r, err := NewJSONRecord(map[string]any{"k": v})
	if err != nil {
		return "", fmt.Errorf("stringifying key %v: %w", v, err)
	}
	return r.String(), nil
}
