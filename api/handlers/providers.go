package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BaSui01/genstudio/generation"
	"github.com/BaSui01/genstudio/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🎨 生成 Provider Handler
// =============================================================================

// ProviderInfo 提供者概要
type ProviderInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// ProviderHandler 提供者与模型查询、生成请求处理器
type ProviderHandler struct {
	registry *generation.Registry
	logger   *zap.Logger
}

// NewProviderHandler 创建处理器
func NewProviderHandler(registry *generation.Registry, logger *zap.Logger) *ProviderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = generation.NewRegistry()
	}
	return &ProviderHandler{
		registry: registry,
		logger:   logger.With(zap.String("handler", "providers")),
	}
}

// HandleList 处理 GET /api/v1/providers
func (h *ProviderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	providers := h.registry.Providers()
	out := make([]ProviderInfo, 0, len(providers))
	for _, p := range providers {
		out = append(out, ProviderInfo{
			ID:         p.ID(),
			Name:       p.Name(),
			Configured: p.IsConfigured(r.Context()),
		})
	}
	WriteSuccess(w, r, out)
}

// HandleModels 处理 GET /api/v1/providers/{id}/models[?q=]
func (h *ProviderHandler) HandleModels(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var models []generation.ProviderModel
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		models = p.SearchModels(r.Context(), q)
	} else {
		models = p.ListModels(r.Context())
	}
	if models == nil {
		models = []generation.ProviderModel{}
	}
	WriteSuccess(w, r, models)
}

// HandleModel 处理 GET /api/v1/providers/{id}/models/{model...}
func (h *ProviderHandler) HandleModel(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	modelID := r.PathValue("model")
	m, found := p.GetModel(r.Context(), modelID)
	if !found {
		WriteErrorMessage(w, r, http.StatusNotFound, types.ErrModelNotFound,
			fmt.Sprintf("model %s not found", modelID), h.logger)
		return
	}
	WriteSuccess(w, r, m)
}

// HandleGenerate 处理 POST /api/v1/providers/{id}/generate。
// 响应体为 GenerationOutput：成功时为生成端点的原始响应。
func (h *ProviderHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !ValidateContentType(w, r, h.logger) {
		return
	}
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var input generation.GenerationInput
	if err := DecodeJSONBody(w, r, &input, h.logger); err != nil {
		return
	}

	out := p.Generate(r.Context(), &input)
	if out == nil {
		out = generation.Failed(types.ErrInternalError, p.Name()+": empty result")
	}
	if out.Success {
		WriteJSON(w, http.StatusOK, out)
		return
	}

	status := types.StatusFor(out.Code)
	h.logger.Info("generation failed", append([]zap.Field{
		zap.String("provider", p.ID()),
		zap.String("model", input.Model),
		zap.String("code", string(out.Code)),
		zap.Int("status", status),
	}, callerFields(r)...)...)
	WriteJSON(w, status, out)
}

func (h *ProviderHandler) lookup(w http.ResponseWriter, r *http.Request) (generation.Provider, bool) {
	id := r.PathValue("id")
	p, ok := h.registry.Get(id)
	if !ok {
		WriteErrorMessage(w, r, http.StatusNotFound, types.ErrProviderNotFound,
			fmt.Sprintf("provider %s not found", id), h.logger)
		return nil, false
	}
	return p, true
}

// Routes 在 mux 上注册提供者相关路由
func (h *ProviderHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/providers", h.HandleList)
	mux.HandleFunc("GET /api/v1/providers/{id}/models", h.HandleModels)
	mux.HandleFunc("GET /api/v1/providers/{id}/models/{model...}", h.HandleModel)
	mux.HandleFunc("POST /api/v1/providers/{id}/generate", h.HandleGenerate)
}
