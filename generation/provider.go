package generation

import "context"

// Provider adapts one vendor's generation API to the uniform contract.
//
// Read operations are gated on credential presence: an unconfigured provider
// reports no models rather than an error.
type Provider interface {
	// ID returns the stable, lowercase registry id.
	ID() string

	// Name returns the human-readable vendor name.
	Name() string

	ListModels(ctx context.Context) []ProviderModel
	SearchModels(ctx context.Context, query string) []ProviderModel
	GetModel(ctx context.Context, id string) (*ProviderModel, bool)

	// Generate never returns a Go error; failures come back as a failure variant.
	Generate(ctx context.Context, input *GenerationInput) *GenerationOutput

	IsConfigured(ctx context.Context) bool

	// APIKey returns the raw stored key for components that forward it.
	APIKey(ctx context.Context) (string, bool)
}

// KeySource resolves a stored API key for a provider id.
type KeySource interface {
	APIKey(ctx context.Context, providerID string) (string, bool)
}
