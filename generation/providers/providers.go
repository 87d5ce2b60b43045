// Package providers wires the built-in generation providers into a registry.
package providers

import (
	"github.com/BaSui01/genstudio/generation"
	"github.com/BaSui01/genstudio/generation/providers/wavespeed"
	"go.uber.org/zap"
)

// Deps are the shared collaborators every provider is built from.
type Deps struct {
	Credentials generation.KeySource
	Dispatcher  *generation.Dispatcher
	Logger      *zap.Logger
}

// RegisterAll registers every built-in provider with r and returns r.
func RegisterAll(r *generation.Registry, deps Deps) *generation.Registry {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var dispatcher wavespeed.Dispatcher
	if deps.Dispatcher != nil {
		dispatcher = deps.Dispatcher
	}
	r.Register(wavespeed.New(deps.Credentials, dispatcher, logger))

	logger.Info("generation providers registered", zap.Strings("providers", r.List()))
	return r
}
