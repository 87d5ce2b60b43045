package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BaSui01/genstudio/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// maxEndpointResponseBytes bounds how much of an endpoint reply is buffered.
const maxEndpointResponseBytes = 16 << 20

// Recorder receives one observation per dispatched generation.
type Recorder interface {
	RecordGeneration(provider, model, outcome string, duration time.Duration)
}

// DispatcherConfig configures the local generation endpoint.
type DispatcherConfig struct {
	Endpoint string        `json:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultDispatcherConfig returns the default endpoint configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Endpoint: "http://localhost:3000/api/generate",
		Timeout:  5 * time.Minute,
	}
}

// Dispatcher forwards normalized requests to the local generation endpoint.
type Dispatcher struct {
	endpoint string
	client   *http.Client
	recorder Recorder
	logger   *zap.Logger
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) DispatcherOption {
	return func(d *Dispatcher) { d.client = c }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) DispatcherOption {
	return func(d *Dispatcher) { d.recorder = r }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg DispatcherConfig, logger *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultDispatcherConfig().Endpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultDispatcherConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With(zap.String("component", "dispatcher")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DispatchRequest carries one provider call.
type DispatchRequest struct {
	ProviderID   string
	ProviderName string
	// HeaderName is the provider-specific credential header, e.g. X-WaveSpeed-API-Key.
	HeaderName string
	APIKey     string
	Input      *GenerationInput
}

// endpointRequest is the wire body sent to the generation endpoint.
type endpointRequest struct {
	Provider      string         `json:"provider"`
	Model         string         `json:"model"`
	Prompt        string         `json:"prompt"`
	Images        []string       `json:"images,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	DynamicInputs map[string]any `json:"dynamicInputs,omitempty"`
}

// Dispatch sends req and translates every outcome into a GenerationOutput.
// The credential travels only in the header, never in the body or URL.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) *GenerationOutput {
	start := time.Now()
	in := req.Input
	if in == nil {
		in = &GenerationInput{}
	}

	out := d.do(ctx, req, in)

	outcome := "success"
	if !out.Success {
		outcome = string(out.Code)
	}
	if d.recorder != nil {
		d.recorder.RecordGeneration(req.ProviderID, in.Model, outcome, time.Since(start))
	}
	return out
}

func (d *Dispatcher) do(ctx context.Context, req DispatchRequest, in *GenerationInput) *GenerationOutput {
	transportFailure := func(format string, args ...any) *GenerationOutput {
		msg := fmt.Sprintf(format, args...)
		d.logger.Warn("generation transport failure",
			zap.String("provider", req.ProviderID),
			zap.String("model", in.Model),
			zap.String("error", msg),
		)
		return Failed(types.ErrTransport, req.ProviderName+": "+msg)
	}

	payload, err := json.Marshal(endpointRequest{
		Provider:      req.ProviderID,
		Model:         in.Model,
		Prompt:        in.Prompt,
		Images:        in.Images,
		Parameters:    in.Parameters,
		DynamicInputs: in.DynamicInputs,
	})
	if err != nil {
		return transportFailure("encode request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return transportFailure("build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.HeaderName != "" {
		httpReq.Header.Set(req.HeaderName, req.APIKey)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return transportFailure("%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEndpointResponseBytes))
	if err != nil {
		return transportFailure("read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := endpointErrorMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		d.logger.Warn("generation endpoint returned error",
			zap.String("provider", req.ProviderID),
			zap.String("model", in.Model),
			zap.Int("status", resp.StatusCode),
		)
		return Failed(types.ErrUpstreamError, msg)
	}

	var out GenerationOutput
	if err := json.Unmarshal(body, &out); err != nil {
		return transportFailure("malformed response: %v", err)
	}
	if !out.Success {
		if out.Error == "" {
			out.Error = "generation failed"
		}
		return Failed(types.ErrUpstreamError, out.Error)
	}
	out.Error = ""
	out.Code = ""
	out.raw = json.RawMessage(body)
	return &out
}

// endpointErrorMessage extracts "error" (string) or "error.message" from body.
func endpointErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	e := gjson.GetBytes(body, "error")
	switch {
	case e.Type == gjson.String:
		return e.String()
	case e.IsObject():
		return e.Get("message").String()
	}
	return ""
}
