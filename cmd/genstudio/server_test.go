package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BaSui01/genstudio/config"
	"github.com/BaSui01/genstudio/generation"
	"github.com/BaSui01/genstudio/settings"
	"github.com/BaSui01/genstudio/testutil"
	"github.com/BaSui01/genstudio/testutil/fixtures"
	"github.com/BaSui01/genstudio/testutil/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testUpstreams struct {
	generation *mocks.GenerationEndpoint
	community  *mocks.CommunityUpstream
}

func newTestUpstreams(t *testing.T) *testUpstreams {
	t.Helper()
	return &testUpstreams{
		generation: mocks.NewGenerationEndpoint(t, fixtures.GenerationSuccess),
		community:  mocks.NewCommunityUpstream(t, fixtures.CommunityWorkflows()),
	}
}

func testConfig(u *testUpstreams) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Providers.GenerationEndpoint = u.generation.URL + "/api/generate"
	cfg.Community.MetadataBaseURL = u.community.BaseURL()
	cfg.Community.Timeout = 5 * time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, http.Handler) {
	t.Helper()
	require.NoError(t, cfg.Validate())

	ctx := testutil.TestContext(t)

	s := NewServer(cfg, zap.NewNop())
	require.NoError(t, s.init(ctx))
	t.Cleanup(s.close)
	return s, s.Handler(ctx)
}

func get(h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		r.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func setWaveSpeedKey(t *testing.T, s *Server, key string) {
	t.Helper()
	store, ok := s.settings.(settings.Writer)
	require.True(t, ok)
	blob := fixtures.SettingsBlob(map[string]string{"wavespeed": key})
	require.NoError(t, store.Set(context.Background(), generation.DefaultSettingsKey, blob))
}

// =============================================================================
// 🧪 端到端路由测试
// =============================================================================

func TestServer_HealthEndpoints(t *testing.T) {
	_, h := newTestServer(t, testConfig(newTestUpstreams(t)))

	for _, path := range []string{"/health", "/healthz", "/ready", "/readyz", "/version"} {
		w := get(h, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestServer_ProvidersReflectCredentials(t *testing.T) {
	s, h := newTestServer(t, testConfig(newTestUpstreams(t)))

	w := get(h, "/api/v1/providers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"id":"wavespeed","name":"WaveSpeed","configured":false}`)

	w = get(h, "/api/v1/providers/wavespeed/models")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	setWaveSpeedKey(t, s, "ws-live")

	w = get(h, "/api/v1/providers")
	assert.Contains(t, w.Body.String(), `"configured":true`)

	w = get(h, "/api/v1/providers/wavespeed/models/wavespeed-ai/flux-dev")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"wavespeed-ai/flux-dev"`)
}

func TestServer_GenerateForwardsCredential(t *testing.T) {
	u := newTestUpstreams(t)
	s, h := newTestServer(t, testConfig(u))

	post := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/providers/wavespeed/generate",
			strings.NewReader(`{"model":"wavespeed-ai/flux-dev","prompt":"a lighthouse at dusk"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	w := post()
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, w.Body.String(), "PROVIDER_UNCONFIGURED")

	setWaveSpeedKey(t, s, "ws-live")
	w = post()
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fixtures.GenerationSuccess, w.Body.String())

	req, ok := u.generation.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "ws-live", req.Header.Get("X-WaveSpeed-API-Key"))
	assert.Len(t, u.generation.Requests(), 1, "unconfigured request never reaches the endpoint")
}

func TestServer_CommunityWorkflow(t *testing.T) {
	u := newTestUpstreams(t)
	_, h := newTestServer(t, testConfig(u))

	w := get(h, "/community-workflows/wf-1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success  bool            `json:"success"`
		Workflow json.RawMessage `json:"workflow"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.JSONEq(t, fixtures.SimpleWorkflow, string(body.Workflow))

	// 新鲜度窗口内复用描述符
	w = get(h, "/community-workflows/wf-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), u.community.MetadataCalls.Load())
	assert.Equal(t, int32(2), u.community.StorageCalls.Load())

	w = get(h, "/community-workflows/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"community workflow missing not found"`)
}

func TestServer_CommunityWorkflowEscapedID(t *testing.T) {
	u := newTestUpstreams(t)
	_, h := newTestServer(t, testConfig(u))

	w := get(h, "/community-workflows/team%2Fflow%20one")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	u.community.Put("fresh", fixtures.ImageToVideoWorkflow)
	w = get(h, "/community-workflows/fresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"image-input"`)
}

func TestServer_APIKeysProtectAPIOnly(t *testing.T) {
	cfg := testConfig(newTestUpstreams(t))
	cfg.Server.APIKeys = []string{"k-1"}
	_, h := newTestServer(t, cfg)

	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/v1/providers").Code)
	assert.Equal(t, http.StatusOK, get(h, "/api/v1/providers", "X-API-Key", "k-1").Code)
	assert.Equal(t, http.StatusOK, get(h, "/health").Code)
	assert.Equal(t, http.StatusOK, get(h, "/community-workflows/wf-1").Code)
}

func TestServer_RedisBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(newTestUpstreams(t))
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()
	cfg.Settings.Backend = "redis"
	cfg.Community.CacheBackend = "redis"
	s, h := newTestServer(t, cfg)
	require.NotNil(t, s.cache)

	require.NoError(t, mr.Set(cfg.Settings.RedisPrefix+cfg.Settings.Key,
		fixtures.SettingsBlob(map[string]string{"wavespeed": "from-redis"})))
	assert.Contains(t, get(h, "/api/v1/providers").Body.String(), `"configured":true`)

	require.Equal(t, http.StatusOK, get(h, "/community-workflows/wf-1").Code)
	assert.True(t, mr.Exists(cfg.Redis.KeyPrefix+"community:descriptor:wf-1"), "descriptor cached in redis")

	w := get(h, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis"`)
}

func TestServer_SQLSettings(t *testing.T) {
	cfg := testConfig(newTestUpstreams(t))
	cfg.Database.Driver = "sqlite"
	cfg.Database.Name = "file::memory:?cache=shared"
	cfg.Settings.Backend = "sql"
	s, h := newTestServer(t, cfg)

	store, ok := s.settings.(*settings.SQLStore)
	require.True(t, ok)
	require.NoError(t, store.Set(context.Background(), cfg.Settings.Key,
		fixtures.SettingsBlob(map[string]string{"wavespeed": "from-sql"})))

	assert.Contains(t, get(h, "/api/v1/providers").Body.String(), `"configured":true`)

	w := get(h, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database"`)
}

func TestServer_MetricsExposed(t *testing.T) {
	s, h := newTestServer(t, testConfig(newTestUpstreams(t)))
	get(h, "/community-workflows/wf-1")

	w := get(s.metricsHandler(), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `genstudio_http_requests_total{method="GET",path="/community-workflows/{id}",status="2xx"} 1`)
	assert.Contains(t, body, `genstudio_community_workflow_requests_total{outcome="success"} 1`)
	assert.Contains(t, body, `genstudio_cache_misses_total{cache_type="community_descriptor"} 1`)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(newTestUpstreams(t))
	cfg.Server.HTTPPort = 0
	cfg.Server.MetricsPort = 0

	s := NewServer(cfg, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.True(t, testutil.WaitFor(func() bool { return s.Addr() != "" }, 5*time.Second), "server did not start")

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
