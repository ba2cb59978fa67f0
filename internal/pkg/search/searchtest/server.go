// Package searchtest 提供内存版 Elasticsearch 模拟服务，仅用于测试
// 只实现流水线用到的接口: ping, _bulk, _refresh, 索引存在性, _count, _search, _cat/indices
package searchtest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type mockIndex struct {
	order []string
	docs  map[string]json.RawMessage
}

// Server 模拟服务
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	indices map[string]*mockIndex
	failIDs map[string]bool
	bulks   int
}

// NewServer 启动模拟服务，调用方负责 Close
func NewServer() *Server {
	s := &Server{
		indices: make(map[string]*mockIndex),
		failIDs: make(map[string]bool),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// FailDocuments 让指定 id 的文档在 _bulk 中返回失败
func (s *Server) FailDocuments(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.failIDs[id] = true
	}
}

// CreateIndex 预先创建索引
func (s *Server) CreateIndex(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index(name)
}

// Document 返回已索引的文档
func (s *Server) Document(index, id string) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indices[index]
	if !ok {
		return nil, false
	}
	raw, ok := idx.docs[id]
	if !ok {
		return nil, false
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// Count 返回索引中的文档数
func (s *Server) Count(index string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.indices[index]; ok {
		return len(idx.docs)
	}
	return 0
}

// BulkRequests 返回收到的 _bulk 请求数
func (s *Server) BulkRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bulks
}

func (s *Server) index(name string) *mockIndex {
	idx, ok := s.indices[name]
	if !ok {
		idx = &mockIndex{docs: make(map[string]json.RawMessage)}
		s.indices[name] = idx
	}
	return idx
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	s.mu.Lock()
	defer s.mu.Unlock()

	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"version": map[string]string{"number": "8.15.0"},
			"tagline": "You Know, for Search",
		})
	case path == "_cat/indices":
		s.catIndices(w)
	case len(parts) == 1:
		if _, ok := s.indices[parts[0]]; ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case len(parts) == 2 && parts[1] == "_bulk":
		s.bulk(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "_refresh":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"_shards": map[string]int{"total": 1, "successful": 1, "failed": 0},
		})
	case len(parts) == 2 && parts[1] == "_count":
		idx, ok := s.indices[parts[0]]
		if !ok {
			writeNotFound(w, parts[0])
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": len(idx.docs)})
	case len(parts) == 2 && parts[1] == "_search":
		s.search(w, parts[0])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) bulk(w http.ResponseWriter, r *http.Request, name string) {
	s.bulks++
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	idx := s.index(name)
	var items []map[string]interface{}
	hasErrors := false

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		metaLine := bytes.TrimSpace(scanner.Bytes())
		if len(metaLine) == 0 {
			continue
		}
		var meta map[string]struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(metaLine, &meta); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !scanner.Scan() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		doc := append(json.RawMessage(nil), scanner.Bytes()...)

		for action, m := range meta {
			item := map[string]interface{}{"_index": name, "_id": m.ID}
			if s.failIDs[m.ID] {
				hasErrors = true
				item["status"] = http.StatusBadRequest
				item["error"] = map[string]string{
					"type":   "document_parsing_exception",
					"reason": "failed to parse document " + m.ID,
				}
			} else {
				if _, exists := idx.docs[m.ID]; !exists {
					idx.order = append(idx.order, m.ID)
				}
				idx.docs[m.ID] = doc
				item["status"] = http.StatusCreated
				item["result"] = "created"
			}
			items = append(items, map[string]interface{}{action: item})
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"took":   1,
		"errors": hasErrors,
		"items":  items,
	})
}

func (s *Server) search(w http.ResponseWriter, name string) {
	idx, ok := s.indices[name]
	if !ok {
		writeNotFound(w, name)
		return
	}
	hits := []map[string]interface{}{}
	if len(idx.order) > 0 {
		id := idx.order[0]
		hits = append(hits, map[string]interface{}{
			"_index":  name,
			"_id":     id,
			"_source": idx.docs[id],
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": len(idx.docs), "relation": "eq"},
			"hits":  hits,
		},
	})
}

func (s *Server) catIndices(w http.ResponseWriter) {
	names := make([]string, 0, len(s.indices))
	for name := range s.indices {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]map[string]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, map[string]string{
			"health":     "yellow",
			"status":     "open",
			"index":      name,
			"docs.count": strconv.Itoa(len(s.indices[name].docs)),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeNotFound(w http.ResponseWriter, index string) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"error": map[string]string{
			"type":   "index_not_found_exception",
			"reason": "no such index [" + index + "]",
		},
		"status": http.StatusNotFound,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
