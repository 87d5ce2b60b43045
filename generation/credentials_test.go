package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/BaSui01/genstudio/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("storage offline")
}

func TestCredentialAccessor_APIKey(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		blob    *string
		wantKey string
		wantOK  bool
	}{
		{name: "blob absent"},
		{name: "invalid json", blob: strPtr(`{"providers":`)},
		{name: "no providers", blob: strPtr(`{}`)},
		{name: "provider missing", blob: strPtr(`{"providers":{"other":{"apiKey":"x"}}}`)},
		{name: "api key missing", blob: strPtr(`{"providers":{"wavespeed":{"enabled":true}}}`)},
		{name: "api key empty", blob: strPtr(`{"providers":{"wavespeed":{"apiKey":""}}}`)},
		{
			name:    "configured",
			blob:    strPtr(`{"theme":"dark","providers":{"wavespeed":{"apiKey":"ws-123","enabled":true}}}`),
			wantKey: "ws-123",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := settings.NewMemoryStore()
			if tt.blob != nil {
				require.NoError(t, store.Set(ctx, DefaultSettingsKey, *tt.blob))
			}
			acc := NewCredentialAccessor(store, "", zap.NewNop())

			key, ok := acc.APIKey(ctx, "wavespeed")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestCredentialAccessor_Unavailable(t *testing.T) {
	ctx := context.Background()

	key, ok := NewCredentialAccessor(nil, "", nil).APIKey(ctx, "wavespeed")
	assert.False(t, ok)
	assert.Empty(t, key)

	var nilAcc *CredentialAccessor
	_, ok = nilAcc.APIKey(ctx, "wavespeed")
	assert.False(t, ok)

	_, ok = NewCredentialAccessor(failingStore{}, "", zap.NewNop()).APIKey(ctx, "wavespeed")
	assert.False(t, ok)
}

func TestCredentialAccessor_CustomKey(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "custom", `{"providers":{"wavespeed":{"apiKey":"k"}}}`))

	key, ok := NewCredentialAccessor(store, "custom", zap.NewNop()).APIKey(ctx, "wavespeed")
	assert.True(t, ok)
	assert.Equal(t, "k", key)

	_, ok = NewCredentialAccessor(store, "", zap.NewNop()).APIKey(ctx, "wavespeed")
	assert.False(t, ok)
}

func strPtr(s string) *string { return &s }
