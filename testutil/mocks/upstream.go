// 上游 HTTP 服务的测试替身：本地生成端点与社区元数据/存储服务。
package mocks

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// --- GenerationEndpoint ---

// RecordedRequest 生成端点收到的一次请求
type RecordedRequest struct {
	Header http.Header
	Body   []byte
}

// GenerationEndpoint 模拟本地生成端点，记录请求并返回固定响应
type GenerationEndpoint struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []RecordedRequest
}

// NewGenerationEndpoint 启动生成端点，默认返回 200 与 body
func NewGenerationEndpoint(t testing.TB, body string) *GenerationEndpoint {
	t.Helper()
	e := &GenerationEndpoint{status: http.StatusOK, body: body}
	e.Server = httptest.NewServer(http.HandlerFunc(e.serve))
	t.Cleanup(e.Close)
	return e
}

// Respond 替换后续请求的响应
func (e *GenerationEndpoint) Respond(status int, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = status
	e.body = body
}

// Requests 返回已记录的请求
func (e *GenerationEndpoint) Requests() []RecordedRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RecordedRequest, len(e.requests))
	copy(out, e.requests)
	return out
}

// LastRequest 返回最近一次请求；没有请求时 ok 为 false
func (e *GenerationEndpoint) LastRequest() (RecordedRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		return RecordedRequest{}, false
	}
	return e.requests[len(e.requests)-1], true
}

func (e *GenerationEndpoint) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	e.mu.Lock()
	e.requests = append(e.requests, RecordedRequest{Header: r.Header.Clone(), Body: body})
	status, resp := e.status, e.body
	e.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp)
}

// --- CommunityUpstream ---

// CommunityUpstream 模拟社区元数据服务与其签发的对象存储
type CommunityUpstream struct {
	Metadata *httptest.Server
	Storage  *httptest.Server

	mu        sync.RWMutex
	workflows map[string]string

	MetadataCalls atomic.Int32
	StorageCalls  atomic.Int32
}

// NewCommunityUpstream 启动两个上游服务，workflows 为 id → 工作流文档
func NewCommunityUpstream(t testing.TB, workflows map[string]string) *CommunityUpstream {
	t.Helper()
	u := &CommunityUpstream{workflows: make(map[string]string, len(workflows))}
	for id, doc := range workflows {
		u.workflows[id] = doc
	}

	u.Storage = httptest.NewServer(http.HandlerFunc(u.serveStorage))
	t.Cleanup(u.Storage.Close)
	u.Metadata = httptest.NewServer(http.HandlerFunc(u.serveMetadata))
	t.Cleanup(u.Metadata.Close)
	return u
}

// BaseURL 返回元数据服务的工作流根地址
func (u *CommunityUpstream) BaseURL() string { return u.Metadata.URL + "/workflows" }

// Put 新增或替换工作流文档
func (u *CommunityUpstream) Put(id, doc string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.workflows[id] = doc
}

// Delete 删除工作流，后续请求返回 404
func (u *CommunityUpstream) Delete(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.workflows, id)
}

func (u *CommunityUpstream) lookup(id string) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	doc, ok := u.workflows[id]
	return doc, ok
}

func (u *CommunityUpstream) serveMetadata(w http.ResponseWriter, r *http.Request) {
	u.MetadataCalls.Add(1)
	id, ok := strings.CutPrefix(r.URL.Path, "/workflows/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, exists := u.lookup(id); !exists {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"error":"not found"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"downloadUrl": u.Storage.URL + "/objects/" + url.PathEscape(id) + ".json?sig=test",
	})
}

func (u *CommunityUpstream) serveStorage(w http.ResponseWriter, r *http.Request) {
	u.StorageCalls.Add(1)
	name, ok := strings.CutPrefix(r.URL.Path, "/objects/")
	if !ok || r.URL.Query().Get("sig") == "" {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	doc, exists := u.lookup(strings.TrimSuffix(name, ".json"))
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, doc)
}
