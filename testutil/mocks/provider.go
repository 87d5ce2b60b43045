// Provider 是 generation.Provider 的测试模拟实现。
//
// 支持固定目录、固定生成结果与调用记录。
package mocks

import (
	"context"
	"sync"

	"github.com/BaSui01/genstudio/generation"
	"github.com/BaSui01/genstudio/types"
)

// --- Provider 结构 ---

// Provider 固定目录的模拟 provider
type Provider struct {
	mu sync.RWMutex

	id         string
	name       string
	apiKey     string
	configured bool
	catalog    *generation.Catalog
	output     *generation.GenerationOutput

	calls []*generation.GenerationInput
}

// --- 构造函数和 Builder 方法 ---

// NewProvider 创建未配置凭据的模拟 provider，目录包含两个模型
func NewProvider(id, name string) *Provider {
	return &Provider{
		id:   id,
		name: name,
		catalog: generation.NewCatalog(id,
			generation.ProviderModel{
				ID:           id + "-ai/flux-dev",
				Name:         "FLUX dev",
				Capabilities: []generation.Capability{generation.CapabilityTextToImage},
			},
			generation.ProviderModel{
				ID:           id + "-ai/wan",
				Name:         "WAN",
				Capabilities: []generation.Capability{generation.CapabilityTextToVideo},
			},
		),
		output: generation.Succeeded([]byte(`{"id":"mock"}`)),
	}
}

// WithAPIKey 设置凭据；空字符串表示未配置
func (p *Provider) WithAPIKey(key string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apiKey = key
	p.configured = key != ""
	return p
}

// WithModels 替换模型目录
func (p *Provider) WithModels(models ...generation.ProviderModel) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog = generation.NewCatalog(p.id, models...)
	return p
}

// WithOutput 设置 Generate 的返回值；nil 用于模拟异常实现
func (p *Provider) WithOutput(out *generation.GenerationOutput) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = out
	return p
}

// --- generation.Provider 实现 ---

func (p *Provider) ID() string   { return p.id }
func (p *Provider) Name() string { return p.name }

func (p *Provider) ListModels(context.Context) []generation.ProviderModel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.configured {
		return []generation.ProviderModel{}
	}
	return p.catalog.Models()
}

func (p *Provider) SearchModels(_ context.Context, query string) []generation.ProviderModel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.configured {
		return []generation.ProviderModel{}
	}
	return p.catalog.Search(query)
}

func (p *Provider) GetModel(_ context.Context, id string) (*generation.ProviderModel, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.configured {
		return nil, false
	}
	return p.catalog.Get(id)
}

// Generate 记录输入；未配置时返回 PROVIDER_UNCONFIGURED
func (p *Provider) Generate(_ context.Context, in *generation.GenerationInput) *generation.GenerationOutput {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, in)
	if !p.configured {
		return generation.Failed(types.ErrProviderUnconfigured, p.name+" API key not configured")
	}
	return p.output
}

func (p *Provider) IsConfigured(context.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.configured
}

func (p *Provider) APIKey(context.Context) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.apiKey, p.configured
}

// --- 调用记录 ---

// Calls 返回 Generate 收到的输入副本
func (p *Provider) Calls() []*generation.GenerationInput {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*generation.GenerationInput, len(p.calls))
	copy(out, p.calls)
	return out
}

// LastCall 返回最近一次 Generate 的输入
func (p *Provider) LastCall() *generation.GenerationInput {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.calls) == 0 {
		return nil
	}
	return p.calls[len(p.calls)-1]
}

var _ generation.Provider = (*Provider)(nil)
