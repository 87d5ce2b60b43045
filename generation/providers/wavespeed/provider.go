package wavespeed

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/BaSui01/genstudio/generation"
	"github.com/BaSui01/genstudio/types"
	"go.uber.org/zap"
)

const (
	// ProviderID is the registry id.
	ProviderID = "wavespeed"
	// ProviderName is the human-readable vendor name.
	ProviderName = "WaveSpeed"
	// HeaderName carries the credential to the generation endpoint.
	HeaderName = "X-WaveSpeed-API-Key"
)

// Dispatcher forwards a request to the generation endpoint.
type Dispatcher interface {
	Dispatch(ctx context.Context, req generation.DispatchRequest) *generation.GenerationOutput
}

var _ generation.Provider = (*Provider)(nil)

// Provider 实现 WaveSpeed 的生成 Provider。
// 模型目录是静态的；所有读操作都以是否存储了 API Key 为前提。
type Provider struct {
	keys       generation.KeySource
	dispatcher Dispatcher
	catalog    *generation.Catalog
	logger     *zap.Logger
}

// New creates a WaveSpeed provider.
func New(keys generation.KeySource, dispatcher Dispatcher, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		keys:       keys,
		dispatcher: dispatcher,
		catalog:    generation.NewCatalog(ProviderID, models...),
		logger:     logger.With(zap.String("component", "provider"), zap.String("provider", ProviderID)),
	}
}

func (p *Provider) ID() string   { return ProviderID }
func (p *Provider) Name() string { return ProviderName }

// APIKey returns the stored key, if any.
func (p *Provider) APIKey(ctx context.Context) (string, bool) {
	if p.keys == nil {
		return "", false
	}
	return p.keys.APIKey(ctx, ProviderID)
}

// IsConfigured reports whether a key is stored.
func (p *Provider) IsConfigured(ctx context.Context) bool {
	_, ok := p.APIKey(ctx)
	return ok
}

// ListModels returns the catalog, or nothing when unconfigured.
func (p *Provider) ListModels(ctx context.Context) []generation.ProviderModel {
	if !p.IsConfigured(ctx) {
		return []generation.ProviderModel{}
	}
	return p.catalog.Models()
}

// SearchModels filters the catalog by name, id or description.
func (p *Provider) SearchModels(ctx context.Context, query string) []generation.ProviderModel {
	if !p.IsConfigured(ctx) {
		return []generation.ProviderModel{}
	}
	return p.catalog.Search(query)
}

// GetModel looks up one model by exact id.
func (p *Provider) GetModel(ctx context.Context, id string) (*generation.ProviderModel, bool) {
	if !p.IsConfigured(ctx) {
		return nil, false
	}
	return p.catalog.Get(id)
}

// Generate validates input and forwards it to the generation endpoint.
func (p *Provider) Generate(ctx context.Context, input *generation.GenerationInput) (out *generation.GenerationOutput) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("generate panicked", zap.Any("panic", r))
			out = generation.Failed(types.ErrInternalError, fmt.Sprintf("%s: internal error", ProviderName))
		}
	}()

	key, ok := p.APIKey(ctx)
	if !ok {
		return generation.Failed(types.ErrProviderUnconfigured, ProviderName+" API key not configured")
	}
	if msg := p.validate(input); msg != "" {
		return generation.Failed(types.ErrInvalidRequest, msg)
	}
	if p.dispatcher == nil {
		return generation.Failed(types.ErrInternalError, ProviderName+": no generation endpoint")
	}

	p.logger.Debug("dispatching generation", zap.String("model", input.Model))
	return p.dispatcher.Dispatch(ctx, generation.DispatchRequest{
		ProviderID:   ProviderID,
		ProviderName: ProviderName,
		HeaderName:   HeaderName,
		APIKey:       key,
		Input:        input,
	})
}

// validate returns a non-empty message when input cannot be sent.
// Models missing from the catalog are forwarded untouched; the endpoint decides.
func (p *Provider) validate(in *generation.GenerationInput) string {
	if in == nil {
		return "input is required"
	}
	if strings.TrimSpace(in.Model) == "" {
		return "model is required"
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return "prompt is required"
	}

	m, known := p.catalog.Get(in.Model)
	if !known {
		return ""
	}
	if m.HasCapability(generation.CapabilityImageToVideo) && len(in.Images) == 0 {
		return fmt.Sprintf("model %s requires at least one image", m.ID)
	}

	schema := paramsFor(m)
	names := make([]string, 0, len(in.Parameters))
	for name := range in.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		kind, ok := schema[name]
		if !ok {
			continue
		}
		if !matchesKind(in.Parameters[name], kind) {
			return fmt.Sprintf("parameter %q must be a %s", name, kind)
		}
	}
	return ""
}

func matchesKind(v any, kind paramKind) bool {
	switch kind {
	case kindNumber:
		switch v.(type) {
		case float64, float32, int, int32, int64, uint, uint32, uint64:
			return true
		}
		return false
	case kindString:
		_, ok := v.(string)
		return ok
	case kindBool:
		_, ok := v.(bool)
		return ok
	}
	return false
}
