package generation

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/BaSui01/genstudio/settings"
	"go.uber.org/zap"
)

// DefaultSettingsKey is the storage key of the namespaced settings blob.
const DefaultSettingsKey = "genstudio-settings"

// settingsBlob is the subset of the front end's settings document we read.
type settingsBlob struct {
	Providers map[string]struct {
		APIKey string `json:"apiKey"`
	} `json:"providers"`
}

// CredentialAccessor reads per-provider API keys from the settings blob.
// A missing key is an unconfigured state, not an error: every failure path
// reports ("", false).
type CredentialAccessor struct {
	store  settings.Store
	key    string
	logger *zap.Logger
}

// NewCredentialAccessor creates an accessor over store. An empty key selects
// DefaultSettingsKey. store may be nil when no storage is available.
func NewCredentialAccessor(store settings.Store, key string, logger *zap.Logger) *CredentialAccessor {
	if key == "" {
		key = DefaultSettingsKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialAccessor{
		store:  store,
		key:    key,
		logger: logger.With(zap.String("component", "credentials")),
	}
}

// APIKey implements KeySource. The key value itself is never logged.
func (a *CredentialAccessor) APIKey(ctx context.Context, providerID string) (string, bool) {
	if a == nil || a.store == nil {
		return "", false
	}

	raw, err := a.store.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, settings.ErrKeyNotFound) {
			a.logger.Debug("settings storage unavailable", zap.Error(err))
		}
		return "", false
	}

	var blob settingsBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		a.logger.Debug("settings blob is not valid JSON", zap.Error(err))
		return "", false
	}

	entry, ok := blob.Providers[providerID]
	if !ok || entry.APIKey == "" {
		return "", false
	}
	return entry.APIKey, true
}
