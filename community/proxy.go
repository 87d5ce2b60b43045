package community

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BaSui01/genstudio/internal/tlsutil"
	"github.com/BaSui01/genstudio/types"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	stageResolve  = "resolve"
	stageDownload = "download"

	// maxDescriptorBytes bounds the metadata response.
	maxDescriptorBytes = 64 << 10
)

// Config configures the proxy.
type Config struct {
	MetadataBaseURL string        `yaml:"metadata_base_url" json:"metadata_base_url" env:"METADATA_BASE_URL"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" env:"TIMEOUT"`
	FreshnessTTL    time.Duration `yaml:"freshness_ttl" json:"freshness_ttl" env:"FRESHNESS_TTL"`
	MaxPayloadBytes int64         `yaml:"max_payload_bytes" json:"max_payload_bytes" env:"MAX_PAYLOAD_BYTES"`
	// CacheBackend selects the descriptor cache: "memory", "redis" or "none".
	CacheBackend string `yaml:"cache_backend" json:"cache_backend" env:"CACHE_BACKEND"`
}

// DefaultConfig returns the default proxy configuration.
func DefaultConfig() Config {
	return Config{
		MetadataBaseURL: "https://api.genstudio.app/community/workflows",
		Timeout:         90 * time.Second,
		FreshnessTTL:    60 * time.Second,
		MaxPayloadBytes: 32 << 20,
		CacheBackend:    "memory",
	}
}

// Recorder receives proxy observations.
type Recorder interface {
	RecordCommunityRequest(outcome string, duration time.Duration)
	RecordCommunityStage(stage string, duration time.Duration)
	RecordCacheHit(cacheType string)
	RecordCacheMiss(cacheType string)
}

// Proxy resolves community workflow ids and fetches their documents.
type Proxy struct {
	cfg      Config
	client   *http.Client
	cache    DescriptorCache
	recorder Recorder
	tracer   trace.Tracer
	logger   *zap.Logger
}

// Option customizes a Proxy.
type Option func(*Proxy)

// WithHTTPClient overrides the outbound client. Its Timeout should be zero;
// the shared deadline is applied per call.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Proxy) { p.client = c }
}

// WithCache enables descriptor caching.
func WithCache(c DescriptorCache) Option {
	return func(p *Proxy) { p.cache = c }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Proxy) { p.recorder = r }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Proxy) { p.tracer = tp.Tracer("github.com/BaSui01/genstudio/community") }
}

// NewProxy creates a Proxy. Zero config fields take their defaults.
func NewProxy(cfg Config, logger *zap.Logger, opts ...Option) *Proxy {
	def := DefaultConfig()
	if cfg.MetadataBaseURL == "" {
		cfg.MetadataBaseURL = def.MetadataBaseURL
	}
	cfg.MetadataBaseURL = strings.TrimRight(cfg.MetadataBaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = def.MaxPayloadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Proxy{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(0),
		tracer: otel.Tracer("github.com/BaSui01/genstudio/community"),
		logger: logger.With(zap.String("component", "community_proxy")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the workflow document for id exactly as served by its signed
// location. Errors are *types.Error carrying an HTTP status.
func (p *Proxy) Get(ctx context.Context, id string) (json.RawMessage, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "community.Get", trace.WithAttributes(attribute.String("community.workflow_id", id)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	doc, err := p.get(ctx, id)

	outcome := "success"
	if err != nil {
		outcome = string(types.GetErrorCode(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	} else {
		span.SetAttributes(attribute.Int("community.payload_bytes", len(doc)))
	}
	if p.recorder != nil {
		p.recorder.RecordCommunityRequest(outcome, time.Since(start))
	}
	return doc, err
}

func (p *Proxy) get(ctx context.Context, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "community workflow id is required").
			WithHTTPStatus(http.StatusBadRequest)
	}

	desc, cached, err := p.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := p.download(ctx, id, desc.DownloadURL)
	if !p.evictSpent(ctx, id, err) || !cached {
		return doc, err
	}

	p.logger.Debug("cached download url rejected, resolving again", zap.String("id", id))
	desc, err = p.fetchDescriptor(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err = p.download(ctx, id, desc.DownloadURL)
	p.evictSpent(ctx, id, err)
	return doc, err
}

// evictSpent drops the cached descriptor for id when err is a download
// failure. Signed urls are effectively single-use.
func (p *Proxy) evictSpent(ctx context.Context, id string, err error) bool {
	if err == nil || p.cache == nil || types.GetErrorCode(err) != types.ErrDownloadFailed {
		return false
	}
	p.cache.Delete(ctx, id)
	return true
}

// =============================================================================
// 🔎 阶段一：解析
// =============================================================================

// resolve returns the descriptor for id and whether it came from the cache.
func (p *Proxy) resolve(ctx context.Context, id string) (Descriptor, bool, error) {
	if p.cache != nil {
		if d, ok := p.cache.Get(ctx, id); ok {
			p.recordCache(true)
			return d, true, nil
		}
		p.recordCache(false)
	}
	d, err := p.fetchDescriptor(ctx, id)
	return d, false, err
}

// fetchDescriptor asks the metadata service for a fresh descriptor and caches
// it on success.
func (p *Proxy) fetchDescriptor(ctx context.Context, id string) (Descriptor, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "community.resolve")
	defer span.End()
	defer p.recordStage(stageResolve, start)

	endpoint := p.cfg.MetadataBaseURL + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		p.logger.Error("invalid metadata url", zap.String("url", endpoint), zap.Error(err))
		return Descriptor{}, resolutionFailed(http.StatusInternalServerError).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Descriptor{}, p.classify(ctx, stageResolve, id, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		return Descriptor{}, types.NewError(types.ErrNotFound, fmt.Sprintf("community workflow %s not found", id)).
			WithHTTPStatus(http.StatusNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("metadata service returned error",
			zap.String("id", id),
			zap.Int("status", resp.StatusCode),
			zap.String("status_text", resp.Status),
		)
		return Descriptor{}, resolutionFailed(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorBytes))
	if err != nil {
		return Descriptor{}, p.classify(ctx, stageResolve, id, err)
	}

	desc, msg := parseDescriptor(body)
	if msg != "" {
		p.logger.Warn("metadata service returned unusable descriptor", zap.String("id", id), zap.String("reason", msg))
		e := resolutionFailed(http.StatusInternalServerError)
		if desc.Error != "" {
			e.Message = desc.Error
		}
		return Descriptor{}, e
	}

	if p.cache != nil {
		p.cache.Set(ctx, id, desc, p.cfg.FreshnessTTL)
	}
	return desc, nil
}

// parseDescriptor decodes body and returns a non-empty reason when it cannot
// be used.
func parseDescriptor(body []byte) (Descriptor, string) {
	if !gjson.ValidBytes(body) {
		return Descriptor{}, "invalid json"
	}
	doc := gjson.ParseBytes(body)
	desc := Descriptor{
		Success:     doc.Get("success").Type == gjson.True,
		DownloadURL: doc.Get("downloadUrl").String(),
	}
	if e := doc.Get("error"); e.Type == gjson.String {
		desc.Error = e.String()
	} else if e.IsObject() {
		desc.Error = e.Get("message").String()
	}

	switch {
	case !desc.Success:
		return desc, "success is not true"
	case desc.DownloadURL == "":
		return desc, "missing downloadUrl"
	}
	u, err := url.Parse(desc.DownloadURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return desc, "downloadUrl is not an absolute http(s) url"
	}
	return desc, ""
}

// =============================================================================
// 📥 阶段二：下载
// =============================================================================

func (p *Proxy) download(ctx context.Context, id, downloadURL string) (json.RawMessage, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "community.download")
	defer span.End()
	defer p.recordStage(stageDownload, start)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, downloadFailed(http.StatusInternalServerError).WithCause(err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.classify(ctx, stageDownload, id, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("signed download failed",
			zap.String("id", id),
			zap.Int("status", resp.StatusCode),
			zap.String("status_text", resp.Status),
		)
		return nil, downloadFailed(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.cfg.MaxPayloadBytes+1))
	if err != nil {
		return nil, p.classify(ctx, stageDownload, id, err)
	}
	if int64(len(body)) > p.cfg.MaxPayloadBytes {
		p.logger.Warn("community workflow exceeds payload limit",
			zap.String("id", id),
			zap.Int64("limit", p.cfg.MaxPayloadBytes),
		)
		return nil, downloadFailed(http.StatusBadGateway)
	}
	if !json.Valid(body) {
		p.logger.Warn("community workflow is not valid json", zap.String("id", id), zap.Int("bytes", len(body)))
		return nil, types.NewError(types.ErrInternalError, "failed to load community workflow").
			WithHTTPStatus(http.StatusInternalServerError)
	}
	return json.RawMessage(body), nil
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// classify maps a transport error in stage to the caller-facing failure. The
// shared deadline wins over the stage-specific classification.
func (p *Proxy) classify(ctx context.Context, stage, id string, err error) *types.Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		p.logger.Warn("community workflow request timed out",
			zap.String("id", id),
			zap.String("stage", stage),
			zap.Duration("timeout", p.cfg.Timeout),
		)
		return types.NewError(types.ErrTimeout, fmt.Sprintf("community workflow %s timed out after %s", id, p.cfg.Timeout)).
			WithHTTPStatus(http.StatusGatewayTimeout).
			WithCause(err)
	case errors.Is(ctx.Err(), context.Canceled):
		p.logger.Debug("community workflow request canceled", zap.String("id", id), zap.String("stage", stage))
		return types.NewError(types.ErrCanceled, "request canceled").
			WithHTTPStatus(types.StatusClientClosedRequest).
			WithCause(err)
	}

	p.logger.Warn("community workflow transport failure",
		zap.String("id", id),
		zap.String("stage", stage),
		zap.Error(err),
	)
	if stage == stageResolve {
		return resolutionFailed(http.StatusInternalServerError).WithCause(err)
	}
	return downloadFailed(http.StatusInternalServerError).WithCause(err)
}

func resolutionFailed(status int) *types.Error {
	return types.NewError(types.ErrResolutionFailed, "failed to resolve community workflow").WithHTTPStatus(status)
}

func downloadFailed(status int) *types.Error {
	return types.NewError(types.ErrDownloadFailed, "failed to download community workflow").WithHTTPStatus(status)
}

func (p *Proxy) recordStage(stage string, start time.Time) {
	if p.recorder != nil {
		p.recorder.RecordCommunityStage(stage, time.Since(start))
	}
}

func (p *Proxy) recordCache(hit bool) {
	if p.recorder == nil {
		return
	}
	if hit {
		p.recorder.RecordCacheHit("community_descriptor")
	} else {
		p.recorder.RecordCacheMiss("community_descriptor")
	}
}
