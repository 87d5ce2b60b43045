package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/BaSui01/genstudio/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🌐 社区工作流 Handler
// =============================================================================

// WorkflowFetcher 按 id 取回社区工作流文档（community.Proxy 实现）
type WorkflowFetcher interface {
	Get(ctx context.Context, id string) (json.RawMessage, error)
}

// workflowResponse GET /community-workflows/{id} 的响应体
type workflowResponse struct {
	Success  bool            `json:"success"`
	Workflow json.RawMessage `json:"workflow,omitempty"`
	Error    string          `json:"error,omitempty"`
	Code     types.ErrorCode `json:"code,omitempty"`
}

// CommunityHandler 社区工作流处理器
type CommunityHandler struct {
	fetcher WorkflowFetcher
	logger  *zap.Logger
}

// NewCommunityHandler 创建社区工作流处理器
func NewCommunityHandler(fetcher WorkflowFetcher, logger *zap.Logger) *CommunityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunityHandler{
		fetcher: fetcher,
		logger:  logger.With(zap.String("handler", "community")),
	}
}

// HandleGet 处理 GET /community-workflows/{id}
func (h *CommunityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := h.fetcher.Get(r.Context(), id)
	if err != nil {
		apiErr, ok := types.AsError(err)
		if !ok {
			apiErr = types.NewError(types.ErrInternalError, "failed to load community workflow").WithCause(err)
		}
		status := statusOf(apiErr)
		if status >= http.StatusInternalServerError {
			h.logger.Warn("community workflow fetch failed", append([]zap.Field{
				zap.String("id", id),
				zap.String("code", string(apiErr.Code)),
				zap.Int("status", status),
				zap.Error(apiErr.Cause),
			}, callerFields(r)...)...)
		}
		WriteJSON(w, status, workflowResponse{
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
		})
		return
	}

	WriteJSON(w, http.StatusOK, workflowResponse{Success: true, Workflow: doc})
}

// Routes 在 mux 上注册社区工作流路由
func (h *CommunityHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /community-workflows/{id}", h.HandleGet)
}
