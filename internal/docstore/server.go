package docstore

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

var nullBody = []byte("null")

// Server exposes the storage over the store dialect:
//
//	GET    /{collection}/.json              whole collection, slot-keyed
//	GET    /{collection}/{slot}/.json       one document or null
//	GET    /{collection}/{slot}/{path}/.json  nested value or null
//	PUT    same paths                        replace collection / node / field
//	DELETE /{collection}/{slot}/.json        clear the slot
//
// Collection responses keep ascending slot order; consumers allocate ids
// from the last entry, so the order is part of the contract.
type Server struct {
	storage *Storage
}

func NewServer(storage *Storage) *Server {
	return &Server{storage: storage}
}

// RegisterRoutes mounts the dialect on a catch-all route.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/*node", s.GetNode)
	r.PUT("/*node", s.PutNode)
	r.DELETE("/*node", s.DeleteNode)
}

// parseNode splits "/tasks/0/.json" into its path segments.
func parseNode(param string) ([]string, bool) {
	path := strings.Trim(param, "/")
	if !strings.HasSuffix(path, ".json") {
		return nil, false
	}
	path = strings.Trim(strings.TrimSuffix(path, ".json"), "/")
	if path == "" {
		return nil, false
	}
	return strings.Split(path, "/"), true
}

func parseSlot(segment string) (int, bool) {
	slot, err := strconv.Atoi(segment)
	if err != nil || slot < 0 {
		return 0, false
	}
	return slot, true
}

func (s *Server) GetNode(c *gin.Context) {
	segments, ok := parseNode(c.Param("node"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid node path"})
		return
	}

	if len(segments) == 1 {
		docs, exists, err := s.storage.Collection(c.Request.Context(), segments[0])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !exists {
			c.Data(http.StatusOK, "application/json", nullBody)
			return
		}
		c.Data(http.StatusOK, "application/json", renderCollection(docs))
		return
	}

	slot, ok := parseSlot(segments[1])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot"})
		return
	}

	doc, exists, err := s.storage.Node(c.Request.Context(), segments[0], slot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.Data(http.StatusOK, "application/json", nullBody)
		return
	}

	if len(segments) == 2 {
		c.Data(http.StatusOK, "application/json", doc)
		return
	}

	value, found := extractPath(doc, segments[2:])
	if !found {
		c.Data(http.StatusOK, "application/json", nullBody)
		return
	}
	c.Data(http.StatusOK, "application/json", value)
}

func (s *Server) PutNode(c *gin.Context) {
	segments, ok := parseNode(c.Param("node"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid node path"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if len(segments) == 1 {
		docs, err := parseCollectionBody(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.storage.ReplaceCollection(c.Request.Context(), segments[0], docs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	slot, ok := parseSlot(segments[1])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot"})
		return
	}

	doc := json.RawMessage(body)
	if len(segments) > 2 {
		current, _, err := s.storage.Node(c.Request.Context(), segments[0], slot)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		doc, err = patchPath(current, segments[2:], body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := s.storage.PutNode(c.Request.Context(), segments[0], slot, doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) DeleteNode(c *gin.Context) {
	segments, ok := parseNode(c.Param("node"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid node path"})
		return
	}

	if len(segments) == 1 {
		if err := s.storage.ReplaceCollection(c.Request.Context(), segments[0], nil); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", nullBody)
		return
	}
	if len(segments) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only whole nodes can be deleted"})
		return
	}

	slot, ok := parseSlot(segments[1])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot"})
		return
	}

	if err := s.storage.DeleteNode(c.Request.Context(), segments[0], slot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", nullBody)
}

// renderCollection writes the slot-keyed collection object by hand:
// encoding/json sorts map keys lexicographically, which would shuffle
// "10" before "2" and break the slot ordering consumers depend on.
func renderCollection(docs []Document) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, doc := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(doc.Slot))
		buf.WriteString(`":`)
		buf.WriteString(doc.Doc)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// parseCollectionBody accepts the two shapes a whole-collection write
// arrives in: a slot-indexed array (null entries are holes) or an object
// keyed by slot numbers.
func parseCollectionBody(body []byte) (map[int]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	docs := make(map[int]json.RawMessage)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		for slot, entry := range entries {
			if isNull(entry) {
				continue
			}
			docs[slot] = entry
		}
		return docs, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, err
	}
	for key, entry := range entries {
		slot, ok := parseSlot(key)
		if !ok {
			return nil, errInvalidSlotKey(key)
		}
		if isNull(entry) {
			continue
		}
		docs[slot] = entry
	}
	return docs, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), nullBody)
}

type errInvalidSlotKey string

func (e errInvalidSlotKey) Error() string {
	return "invalid slot key: " + string(e)
}
