package knowledge

import (
	"bytes"
	"encoding/json"
	"strings"
)

// priorityKeys are tried first when deciding which field of an uploaded
// object holds the knowledge text. Order matters.
var priorityKeys = []string{"content", "text", "info", "body"}

type field struct {
	key   string
	value json.RawMessage
}

// Extract pulls knowledge fragments out of an arbitrary JSON document.
// A top-level array fans out to one candidate per element; a top-level
// object is a single candidate; any other shape yields nothing. Each
// candidate object contributes at most one fragment: the first non-empty
// string under a priority key, or failing that the first string-valued
// field in declared key order. Objects without any usable string field
// are skipped. Returned fragments are whitespace-trimmed and non-empty.
func Extract(raw []byte) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	var units []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &units); err != nil {
			return nil
		}
	case '{':
		units = []json.RawMessage{trimmed}
	default:
		// Scalar or null at the top level: nothing to extract.
		return nil
	}

	var fragments []string
	for _, unit := range units {
		if text, ok := extractOne(unit); ok {
			fragments = append(fragments, text)
		}
	}
	return fragments
}

func extractOne(unit json.RawMessage) (string, bool) {
	fields, ok := orderedFields(unit)
	if !ok {
		return "", false
	}

	for _, key := range priorityKeys {
		for _, f := range fields {
			if f.key != key {
				continue
			}
			if text, ok := stringValue(f.value); ok {
				return text, true
			}
			break
		}
	}

	// Unknown schema: fall back to the first string-valued field in the
	// order the keys were declared.
	for _, f := range fields {
		if text, ok := stringValue(f.value); ok {
			return text, true
		}
	}
	return "", false
}

// orderedFields enumerates an object's top-level key/value pairs in their
// declared order. encoding/json maps lose ordering, so this walks the
// token stream instead.
func orderedFields(unit json.RawMessage) ([]field, bool) {
	dec := json.NewDecoder(bytes.NewReader(unit))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	var fields []field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		fields = append(fields, field{key: key, value: value})
	}
	return fields, true
}

func stringValue(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
