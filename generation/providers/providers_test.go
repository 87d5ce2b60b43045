package providers

import (
	"context"
	"testing"

	"github.com/BaSui01/genstudio/generation"
	"github.com/BaSui01/genstudio/settings"
	"github.com/BaSui01/genstudio/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAll(t *testing.T) {
	r := RegisterAll(generation.NewRegistry(), Deps{Logger: zap.NewNop()})

	assert.Equal(t, []string{"wavespeed"}, r.List())
	p, ok := r.Get("wavespeed")
	require.True(t, ok)
	assert.Equal(t, "WaveSpeed", p.Name())

	_, ok = r.Get("WaveSpeed")
	assert.False(t, ok)
}

func TestRegisterAll_NilDispatcherStillGates(t *testing.T) {
	store := settings.NewMemoryStore()
	keys := generation.NewCredentialAccessor(store, "", nil)
	r := RegisterAll(generation.NewRegistry(), Deps{Credentials: keys})

	p, ok := r.Get("wavespeed")
	require.True(t, ok)

	out := p.Generate(context.Background(), &generation.GenerationInput{Model: "wavespeed-ai/flux-dev", Prompt: "x"})
	assert.Equal(t, types.ErrProviderUnconfigured, out.Code)

	require.NoError(t, store.Set(context.Background(), generation.DefaultSettingsKey, `{"providers":{"wavespeed":{"apiKey":"k"}}}`))
	out = p.Generate(context.Background(), &generation.GenerationInput{Model: "wavespeed-ai/flux-dev", Prompt: "x"})
	assert.Equal(t, types.ErrInternalError, out.Code)
}
