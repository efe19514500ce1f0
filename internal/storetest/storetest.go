// Package storetest provides an in-memory document store speaking the
// same REST dialect as the hosted database, for use in tests: collections
// are slot-indexed arrays with null holes, nodes are replaced wholesale,
// and single-field PUTs patch nested paths. Failures can be injected per
// method and path to exercise rollback behavior.
package storetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

type failRule struct {
	method string
	prefix string
}

type Server struct {
	mu          sync.Mutex
	collections map[string][]json.RawMessage
	writes      []string
	failures    []failRule
	srv         *httptest.Server
}

func New() *Server {
	s := &Server{collections: make(map[string][]json.RawMessage)}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) Close()      { s.srv.Close() }
func (s *Server) URL() string { return s.srv.URL }

// Seed stores a record at the slot derived from its id.
func (s *Server) Seed(collection string, id int, record any) {
	raw, err := json.Marshal(record)
	if err != nil {
		panic(fmt.Sprintf("storetest: seed %s/%d: %v", collection, id, err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSlot(collection, id-1, raw)
}

// FailOn makes every request with the given method whose node path starts
// with prefix answer 500.
func (s *Server) FailOn(method, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failRule{method: method, prefix: strings.Trim(prefix, "/")})
}

// Writes returns the node paths of every PUT and DELETE seen so far, in
// order, as "METHOD path" strings.
func (s *Server) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

// Record returns the document currently stored at the record's slot, or
// nil when the slot is empty.
func (s *Server) Record(collection string, id int) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := s.collections[collection]
	slot := id - 1
	if slot < 0 || slot >= len(slots) {
		return nil
	}
	return slots[slot]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimSuffix(strings.Trim(r.URL.Path, "/"), ".json"), "/")
	segments := []string{}
	if path != "" {
		segments = strings.Split(path, "/")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rule := range s.failures {
		if r.Method == rule.method && strings.HasPrefix(path, rule.prefix) {
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}
	}

	if r.Method != http.MethodGet {
		s.writes = append(s.writes, r.Method+" "+path)
	}

	switch r.Method {
	case http.MethodGet:
		s.respond(w, s.read(segments))
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil || !json.Valid(body) {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if err := s.write(segments, body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.respond(w, body)
	case http.MethodDelete:
		if len(segments) == 2 {
			if slot, err := strconv.Atoi(segments[1]); err == nil {
				slots := s.collections[segments[0]]
				if slot >= 0 && slot < len(slots) {
					slots[slot] = nil
				}
			}
		}
		s.respond(w, nil)
	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func (s *Server) respond(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	if raw == nil {
		_, _ = w.Write([]byte("null"))
		return
	}
	_, _ = w.Write(raw)
}

func (s *Server) read(segments []string) json.RawMessage {
	if len(segments) == 0 {
		return nil
	}
	slots, ok := s.collections[segments[0]]
	if !ok {
		return nil
	}
	if len(segments) == 1 {
		out, _ := json.Marshal(slots)
		return out
	}
	slot, err := strconv.Atoi(segments[1])
	if err != nil || slot < 0 || slot >= len(slots) {
		return nil
	}
	if len(segments) == 2 {
		return slots[slot]
	}
	return extractPath(slots[slot], segments[2:])
}

func (s *Server) write(segments []string, body json.RawMessage) error {
	if len(segments) == 0 {
		return fmt.Errorf("cannot replace the root node")
	}
	collection := segments[0]

	if len(segments) == 1 {
		slots, err := decodeCollection(body)
		if err != nil {
			return err
		}
		s.collections[collection] = slots
		return nil
	}

	slot, err := strconv.Atoi(segments[1])
	if err != nil || slot < 0 {
		return fmt.Errorf("bad slot %q", segments[1])
	}
	if len(segments) == 2 {
		s.setSlot(collection, slot, body)
		return nil
	}

	// Single-field PUT on a nested path inside the slot document.
	slots := s.collections[collection]
	var doc json.RawMessage
	if slot < len(slots) {
		doc = slots[slot]
	}
	patched, err := patchPath(doc, segments[2:], body)
	if err != nil {
		return err
	}
	s.setSlot(collection, slot, patched)
	return nil
}

func (s *Server) setSlot(collection string, slot int, raw json.RawMessage) {
	slots := s.collections[collection]
	for len(slots) <= slot {
		slots = append(slots, nil)
	}
	slots[slot] = raw
	s.collections[collection] = slots
}

func decodeCollection(body json.RawMessage) ([]json.RawMessage, error) {
	var asArray []json.RawMessage
	if err := json.Unmarshal(body, &asArray); err == nil {
		return asArray, nil
	}
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(body, &asMap); err != nil {
		return nil, fmt.Errorf("collection body is neither array nor map: %w", err)
	}
	var slots []json.RawMessage
	for key, value := range asMap {
		slot, err := strconv.Atoi(key)
		if err != nil || slot < 0 {
			return nil, fmt.Errorf("bad slot key %q", key)
		}
		for len(slots) <= slot {
			slots = append(slots, nil)
		}
		slots[slot] = value
	}
	return slots, nil
}

func extractPath(doc json.RawMessage, segments []string) json.RawMessage {
	if doc == nil {
		return nil
	}
	var node any
	if err := json.Unmarshal(doc, &node); err != nil {
		return nil
	}
	for _, seg := range segments {
		switch typed := node.(type) {
		case map[string]any:
			node = typed[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil
			}
			node = typed[idx]
		default:
			return nil
		}
	}
	if node == nil {
		return nil
	}
	out, _ := json.Marshal(node)
	return out
}

func patchPath(doc json.RawMessage, segments []string, value json.RawMessage) (json.RawMessage, error) {
	var node any
	if doc != nil {
		if err := json.Unmarshal(doc, &node); err != nil {
			return nil, err
		}
	}
	var val any
	if err := json.Unmarshal(value, &val); err != nil {
		return nil, err
	}
	patched, err := setPath(node, segments, val)
	if err != nil {
		return nil, err
	}
	return json.Marshal(patched)
}

func setPath(node any, segments []string, value any) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	seg := segments[0]
	if idx, err := strconv.Atoi(seg); err == nil {
		arr, ok := node.([]any)
		if !ok && node != nil {
			return nil, fmt.Errorf("segment %q: node is not an array", seg)
		}
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		child, err := setPath(arr[idx], segments[1:], value)
		if err != nil {
			return nil, err
		}
		arr[idx] = child
		return arr, nil
	}
	obj, ok := node.(map[string]any)
	if !ok {
		if node != nil {
			return nil, fmt.Errorf("segment %q: node is not an object", seg)
		}
		obj = make(map[string]any)
	}
	child, err := setPath(obj[seg], segments[1:], value)
	if err != nil {
		return nil, err
	}
	obj[seg] = child
	return obj, nil
}
