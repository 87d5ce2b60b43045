package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BaSui01/genstudio/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fetcherFunc func(ctx context.Context, id string) (json.RawMessage, error)

func (f fetcherFunc) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return f(ctx, id)
}

func newCommunityMux(f WorkflowFetcher) *http.ServeMux {
	mux := http.NewServeMux()
	NewCommunityHandler(f, zap.NewNop()).Routes(mux)
	return mux
}

// =============================================================================
// 🧪 CommunityHandler 测试
// =============================================================================

func TestCommunityHandler_Success(t *testing.T) {
	doc := `{"nodes":[{"id":"n1","type":"prompt"}],"edges":[]}`
	var gotID string
	mux := newCommunityMux(fetcherFunc(func(_ context.Context, id string) (json.RawMessage, error) {
		gotID = id
		return json.RawMessage(doc), nil
	}))

	w := serve(mux, http.MethodGet, "/community-workflows/wf-42", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "wf-42", gotID)

	var body struct {
		Success  bool            `json:"success"`
		Workflow json.RawMessage `json:"workflow"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.JSONEq(t, doc, string(body.Workflow))
}

func TestCommunityHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "not found",
			err:        types.NewError(types.ErrNotFound, "community workflow wf not found").WithHTTPStatus(http.StatusNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "community workflow wf not found",
		},
		{
			name:       "timeout",
			err:        types.NewError(types.ErrTimeout, "community workflow wf timed out after 90s").WithHTTPStatus(http.StatusGatewayTimeout),
			wantStatus: http.StatusGatewayTimeout,
			wantMsg:    "community workflow wf timed out after 90s",
		},
		{
			name:       "resolution mirrors upstream",
			err:        types.NewError(types.ErrResolutionFailed, "failed to resolve community workflow").WithHTTPStatus(http.StatusServiceUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "failed to resolve community workflow",
		},
		{
			name:       "canceled",
			err:        types.NewError(types.ErrCanceled, "request canceled").WithHTTPStatus(types.StatusClientClosedRequest),
			wantStatus: types.StatusClientClosedRequest,
			wantMsg:    "request canceled",
		},
		{
			name:       "untyped error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "failed to load community workflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newCommunityMux(fetcherFunc(func(context.Context, string) (json.RawMessage, error) {
				return nil, tt.err
			}))

			w := serve(mux, http.MethodGet, "/community-workflows/wf", "")
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.NotContains(t, body, "workflow")
		})
	}
}

func TestCommunityHandler_EscapedID(t *testing.T) {
	var gotID string
	mux := newCommunityMux(fetcherFunc(func(_ context.Context, id string) (json.RawMessage, error) {
		gotID = id
		return json.RawMessage(`{}`), nil
	}))

	w := serve(mux, http.MethodGet, "/community-workflows/team%2Fflow%20one", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "team/flow one", gotID)
}
