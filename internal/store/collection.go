package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// entry is one slot of a collection document, in store iteration order.
type entry struct {
	key   string
	value json.RawMessage
}

// parseEntries splits a collection document into its entries. The store
// answers either with an array (dense from slot 0, holes as null) or with
// an object keyed by slot. Object keys must be walked in document order,
// since id allocation reads the last entry, so the document is parsed with
// a token stream instead of a Go map.
func parseEntries(raw json.RawMessage) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("parse collection: document is not an array or object")
	}

	var entries []entry
	switch delim {
	case '[':
		for i := 0; dec.More(); i++ {
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("parse collection: slot %d: %w", i, err)
			}
			entries = append(entries, entry{key: strconv.Itoa(i), value: value})
		}
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("parse collection: %w", err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("parse collection: unexpected key token %v", keyTok)
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("parse collection: key %q: %w", key, err)
			}
			entries = append(entries, entry{key: key, value: value})
		}
	default:
		return nil, fmt.Errorf("parse collection: unexpected delimiter %q", delim)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	return entries, nil
}
