package generation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BaSui01/genstudio/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedGeneration struct {
	provider, model, outcome string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedGeneration
}

func (r *fakeRecorder) RecordGeneration(provider, model, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedGeneration{provider, model, outcome})
}

func newTestDispatcher(t *testing.T, h http.HandlerFunc, opts ...DispatcherOption) *Dispatcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewDispatcher(DispatcherConfig{Endpoint: srv.URL + "/generate", Timeout: 5 * time.Second}, zap.NewNop(), opts...)
}

func testDispatchRequest() DispatchRequest {
	return DispatchRequest{
		ProviderID:   "wavespeed",
		ProviderName: "WaveSpeed",
		HeaderName:   "X-WaveSpeed-API-Key",
		APIKey:       "secret-key",
		Input: &GenerationInput{
			Model:         "wavespeed-ai/flux-dev",
			Prompt:        "a red fox",
			Images:        []string{"https://img/1.png", "https://img/2.png"},
			Parameters:    map[string]any{"seed": 42},
			DynamicInputs: map[string]any{"node_3": "value"},
		},
	}
}

func TestDispatcher_SendsNormalizedRequest(t *testing.T) {
	var (
		gotBody   map[string]any
		gotHeader string
		gotPath   string
		gotQuery  string
	)
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-WaveSpeed-API-Key")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":{"url":"https://cdn/out.png"}}`)
	})

	out := d.Dispatch(context.Background(), testDispatchRequest())
	require.True(t, out.Success, out.Error)

	assert.Equal(t, "/generate", gotPath)
	assert.Equal(t, "secret-key", gotHeader)
	assert.Empty(t, gotQuery, "credential must not travel in the URL")
	assert.Equal(t, "wavespeed", gotBody["provider"])
	assert.Equal(t, "wavespeed-ai/flux-dev", gotBody["model"])
	assert.Equal(t, "a red fox", gotBody["prompt"])
	assert.Equal(t, []any{"https://img/1.png", "https://img/2.png"}, gotBody["images"])
	assert.Equal(t, map[string]any{"seed": float64(42)}, gotBody["parameters"])
	assert.Equal(t, map[string]any{"node_3": "value"}, gotBody["dynamicInputs"])
	for k, v := range gotBody {
		assert.NotContains(t, k, "apiKey")
		if s, ok := v.(string); ok {
			assert.NotEqual(t, "secret-key", s, "credential must not travel in the body")
		}
	}
}

func TestDispatcher_SuccessBodyIsVerbatim(t *testing.T) {
	body := `{"success":true,"data":{"url":"https://cdn/out.png"},"taskId":"t-1"}`
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	})

	out := d.Dispatch(context.Background(), testDispatchRequest())
	require.True(t, out.Success)
	assert.JSONEq(t, `{"url":"https://cdn/out.png"}`, string(out.Data))
	assert.Empty(t, out.Error)

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(encoded))
	assert.JSONEq(t, body, string(out.Raw()))
}

func TestDispatcher_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode types.ErrorCode
	}{
		{"error string", http.StatusBadRequest, `{"error":"prompt rejected"}`, "prompt rejected", types.ErrUpstreamError},
		{"error object", http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`, "invalid key", types.ErrUpstreamError},
		{"no error field", http.StatusBadGateway, `{"detail":"x"}`, "HTTP 502", types.ErrUpstreamError},
		{"non json", http.StatusInternalServerError, `<html>oops</html>`, "HTTP 500", types.ErrUpstreamError},
		{"2xx reported failure", http.StatusOK, `{"success":false,"error":"quota exceeded"}`, "quota exceeded", types.ErrUpstreamError},
		{"2xx failure without message", http.StatusOK, `{"success":false}`, "generation failed", types.ErrUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			out := d.Dispatch(context.Background(), testDispatchRequest())
			assert.False(t, out.Success)
			assert.Equal(t, tt.wantMsg, out.Error)
			assert.Equal(t, tt.wantCode, out.Code)
			assert.Nil(t, out.Data)
		})
	}
}

func TestDispatcher_MalformedResponse(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":tru`)
	})

	out := d.Dispatch(context.Background(), testDispatchRequest())
	assert.False(t, out.Success)
	assert.Equal(t, types.ErrTransport, out.Code)
	assert.True(t, strings.HasPrefix(out.Error, "WaveSpeed: "), out.Error)
}

func TestDispatcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	d := NewDispatcher(DispatcherConfig{Endpoint: endpoint}, zap.NewNop())
	out := d.Dispatch(context.Background(), testDispatchRequest())

	assert.False(t, out.Success)
	assert.Equal(t, types.ErrTransport, out.Code)
	assert.True(t, strings.HasPrefix(out.Error, "WaveSpeed: "), out.Error)
	assert.NotContains(t, out.Error, "secret-key")
}

func TestDispatcher_ContextCanceled(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := d.Dispatch(ctx, testDispatchRequest())
	assert.False(t, out.Success)
	assert.Equal(t, types.ErrTransport, out.Code)
}

func TestDispatcher_RecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("X-WaveSpeed-API-Key"), "bad") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"success":true}`)
	}, WithRecorder(rec))

	req := testDispatchRequest()
	d.Dispatch(context.Background(), req)
	req.APIKey = "bad-key"
	d.Dispatch(context.Background(), req)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, recordedGeneration{"wavespeed", "wavespeed-ai/flux-dev", "success"}, rec.calls[0])
	assert.Equal(t, recordedGeneration{"wavespeed", "wavespeed-ai/flux-dev", string(types.ErrUpstreamError)}, rec.calls[1])
}

func TestDispatcher_NilInput(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	})
	req := testDispatchRequest()
	req.Input = nil

	out := d.Dispatch(context.Background(), req)
	assert.True(t, out.Success)
}

func TestGenerationOutput_MarshalFailure(t *testing.T) {
	encoded, err := json.Marshal(Failed(types.ErrProviderUnconfigured, "WaveSpeed API key not configured"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"WaveSpeed API key not configured","code":"PROVIDER_UNCONFIGURED"}`, string(encoded))

	encoded, err = json.Marshal(Succeeded(json.RawMessage(`{"id":1}`)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, string(encoded))
}
