package docstore

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// extractPath walks a document along the given segments and returns the
// raw value there. Numeric segments index arrays as well as keying
// objects, matching how the hosted store resolves paths.
func extractPath(doc json.RawMessage, segments []string) (json.RawMessage, bool) {
	current := decodeValue(doc)
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]interface{}:
			child, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = child
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	encoded, err := json.Marshal(current)
	if err != nil {
		return nil, false
	}
	return encoded, true
}

// patchPath writes value at the given path inside doc, creating the
// intermediate containers. A numeric next segment grows an array, padded
// with nulls up to the index; anything else grows an object.
func patchPath(doc json.RawMessage, segments []string, value json.RawMessage) (json.RawMessage, error) {
	root := decodeValue(doc)
	patched, err := setPath(root, segments, decodeValue(value))
	if err != nil {
		return nil, err
	}
	return json.Marshal(patched)
}

func setPath(node interface{}, segments []string, value interface{}) (interface{}, error) {
	if len(segments) == 0 {
		return value, nil
	}
	segment := segments[0]

	if index, err := strconv.Atoi(segment); err == nil && index >= 0 {
		list, ok := node.([]interface{})
		if !ok {
			if existing, isMap := node.(map[string]interface{}); isMap {
				return setMapPath(existing, segment, segments[1:], value)
			}
			list = nil
		}
		for len(list) <= index {
			list = append(list, nil)
		}
		child, err := setPath(list[index], segments[1:], value)
		if err != nil {
			return nil, err
		}
		list[index] = child
		return list, nil
	}

	object, ok := node.(map[string]interface{})
	if !ok {
		object = make(map[string]interface{})
	}
	return setMapPath(object, segment, segments[1:], value)
}

func setMapPath(object map[string]interface{}, key string, rest []string, value interface{}) (interface{}, error) {
	child, err := setPath(object[key], rest, value)
	if err != nil {
		return nil, err
	}
	object[key] = child
	return object, nil
}

// decodeValue parses raw JSON keeping numbers verbatim, so patching a
// document never rewrites 1735554442 as 1.735554442e+09.
func decodeValue(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil
	}
	return value
}
