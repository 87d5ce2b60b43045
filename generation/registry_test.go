package generation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// stubProvider is a minimal Provider distinguishable by tag.
type stubProvider struct {
	id  string
	tag string
}

func (p *stubProvider) ID() string   { return p.id }
func (p *stubProvider) Name() string { return p.tag }
func (p *stubProvider) ListModels(context.Context) []ProviderModel {
	return nil
}
func (p *stubProvider) SearchModels(context.Context, string) []ProviderModel {
	return nil
}
func (p *stubProvider) GetModel(context.Context, string) (*ProviderModel, bool) {
	return nil, false
}
func (p *stubProvider) Generate(context.Context, *GenerationInput) *GenerationOutput {
	return Failed("", "stub")
}
func (p *stubProvider) IsConfigured(context.Context) bool { return false }
func (p *stubProvider) APIKey(context.Context) (string, bool) {
	return "", false
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())

	p := &stubProvider{id: "wavespeed", tag: "a"}
	r.Register(p)

	got, ok := r.Get("wavespeed")
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = r.Get("WaveSpeed")
	assert.False(t, ok, "lookup is by exact id")

	_, ok = r.Get("unknown")
	assert.False(t, ok)
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := NewRegistry()
	first := &stubProvider{id: "dup", tag: "first"}
	second := &stubProvider{id: "dup", tag: "second"}

	r.Register(first)
	r.Register(second)

	got, ok := r.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "second", got.Name())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_IgnoresNil(t *testing.T) {
	r := NewRegistry()
	r.Register(nil)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		r.Register(&stubProvider{id: id})
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.List())

	providers := r.Providers()
	require.Len(t, providers, 3)
	assert.Equal(t, "alpha", providers[0].ID())
	assert.Equal(t, "zeta", providers[2].ID())
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubProvider{id: "wavespeed"})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := r.Get("wavespeed")
			assert.True(t, ok)
			_ = r.List()
		}()
	}
	wg.Wait()
}

// 属性：对同一 ID 的任意注册序列，Get 总是返回最后一次注册的 Provider。
func TestProperty_Registry_LastWriteWins(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := NewRegistry()
		ids := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 20).Draw(rt, "ids")

		last := make(map[string]string)
		for i, id := range ids {
			tag := fmt.Sprintf("reg-%d", i)
			r.Register(&stubProvider{id: id, tag: tag})
			last[id] = tag
		}

		if r.Len() != len(last) {
			rt.Fatalf("expected %d providers, got %d", len(last), r.Len())
		}
		for id, tag := range last {
			got, ok := r.Get(id)
			if !ok {
				rt.Fatalf("provider %q missing", id)
			}
			if got.Name() != tag {
				rt.Fatalf("provider %q: expected %s, got %s", id, tag, got.Name())
			}
		}
	})
}
