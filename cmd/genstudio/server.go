package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/BaSui01/genstudio/api/handlers"
	"github.com/BaSui01/genstudio/community"
	"github.com/BaSui01/genstudio/config"
	"github.com/BaSui01/genstudio/generation"
	"github.com/BaSui01/genstudio/generation/providers"
	"github.com/BaSui01/genstudio/internal/cache"
	"github.com/BaSui01/genstudio/internal/database"
	"github.com/BaSui01/genstudio/internal/metrics"
	"github.com/BaSui01/genstudio/internal/server"
	"github.com/BaSui01/genstudio/internal/telemetry"
	"github.com/BaSui01/genstudio/settings"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 GenStudio 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 指标与遥测
	promRegistry *prometheus.Registry
	collector    *metrics.Collector
	telemetry    *telemetry.Providers

	// 外部存储
	cache *cache.Manager
	db    *gorm.DB
	pool  *database.PoolManager

	// 领域组件
	settings settings.Store
	registry *generation.Registry
	proxy    *community.Proxy
	health   *handlers.HealthHandler

	// 服务器管理器
	mu             sync.RWMutex
	httpManager    *server.Manager
	metricsManager *server.Manager
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, logger: logger}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Run 初始化全部组件并运行 HTTP 与 Metrics 服务器，直到 ctx 结束
func (s *Server) Run(ctx context.Context) error {
	if err := s.init(ctx); err != nil {
		s.close()
		return err
	}
	defer s.close()

	handler := s.Handler(ctx)
	httpManager := server.NewManager("api", handler, s.httpServerConfig(), s.logger)
	s.mu.Lock()
	s.httpManager = httpManager
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpManager.Run(gctx) })

	if s.cfg.Server.MetricsPort != 0 {
		metricsManager := server.NewManager("metrics", s.metricsHandler(), server.Config{
			Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
			ReadTimeout:     s.cfg.Server.ReadTimeout,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     s.cfg.Server.IdleTimeout,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
		}, s.logger)
		s.mu.Lock()
		s.metricsManager = metricsManager
		s.mu.Unlock()
		g.Go(func() error { return metricsManager.Run(gctx) })
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.Bool("tls", s.cfg.Server.TLSCertFile != ""),
	)

	err := g.Wait()
	s.logger.Info("Servers stopped, releasing resources")
	return err
}

// Addr 返回 API 服务器的实际监听地址，未监听时为空
func (s *Server) Addr() string {
	s.mu.RLock()
	m := s.httpManager
	s.mu.RUnlock()
	if m == nil {
		return ""
	}
	return m.ListenAddr()
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// init 按依赖顺序构建组件：遥测 → 指标 → Redis → 数据库 → 设置存储 → provider → 代理
func (s *Server) init(ctx context.Context) error {
	var err error

	s.telemetry, err = telemetry.Init(ctx, s.cfg.Telemetry, Version, s.logger)
	if err != nil {
		// 遥测不可用不阻止启动
		s.logger.Warn("failed to initialize telemetry", zap.Error(err))
		s.telemetry = nil
	}

	s.promRegistry = prometheus.NewRegistry()
	s.promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.collector = metrics.NewCollectorWith(s.promRegistry, "genstudio", s.logger)
	s.health = handlers.NewHealthHandler(Version, s.logger)

	if err := s.initRedis(); err != nil {
		return err
	}
	if err := s.initDatabase(); err != nil {
		return err
	}
	if err := s.initSettings(); err != nil {
		return err
	}

	s.initProviders()
	s.initCommunity()

	s.logger.Info("Components initialized",
		zap.Strings("providers", s.registry.List()),
		zap.String("settings_backend", s.cfg.Settings.Backend),
		zap.String("descriptor_cache", s.cfg.Community.CacheBackend),
	)
	return nil
}

func (s *Server) initRedis() error {
	if !s.cfg.Redis.Enabled {
		return nil
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Addr = s.cfg.Redis.Addr
	cacheCfg.Password = s.cfg.Redis.Password
	cacheCfg.DB = s.cfg.Redis.DB
	cacheCfg.TLSEnabled = s.cfg.Redis.TLSEnabled
	if s.cfg.Redis.KeyPrefix != "" {
		cacheCfg.KeyPrefix = s.cfg.Redis.KeyPrefix
	}
	if s.cfg.Redis.PoolSize > 0 {
		cacheCfg.PoolSize = s.cfg.Redis.PoolSize
	}
	if s.cfg.Redis.MinIdleConns > 0 {
		cacheCfg.MinIdleConns = s.cfg.Redis.MinIdleConns
	}

	m, err := cache.NewManager(cacheCfg, s.logger)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	s.cache = m
	s.health.RegisterCheck(handlers.NewPingCheck("redis", m.Ping))
	return nil
}

func (s *Server) initDatabase() error {
	if s.cfg.Database.Driver == "" {
		return nil
	}

	db, err := database.Open(s.cfg.Database.Driver, s.cfg.Database.DSN(), s.logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	s.db = db

	poolCfg := database.DefaultPoolConfig()
	if s.cfg.Database.MaxOpenConns > 0 {
		poolCfg.MaxOpenConns = s.cfg.Database.MaxOpenConns
	}
	if s.cfg.Database.MaxIdleConns > 0 {
		poolCfg.MaxIdleConns = s.cfg.Database.MaxIdleConns
	}
	if s.cfg.Database.ConnMaxLifetime > 0 {
		poolCfg.ConnMaxLifetime = s.cfg.Database.ConnMaxLifetime
	}

	pool, err := database.NewPoolManager(db, s.cfg.Database.Driver, poolCfg, s.logger,
		database.WithStatsRecorder(s.collector))
	if err != nil {
		return fmt.Errorf("init database pool: %w", err)
	}
	s.pool = pool
	s.health.RegisterCheck(handlers.NewPingCheck("database", pool.Ping))
	return nil
}

func (s *Server) initSettings() error {
	switch s.cfg.Settings.Backend {
	case "file":
		store, err := settings.NewFileStore(s.cfg.Settings.Dir)
		if err != nil {
			return fmt.Errorf("init settings: %w", err)
		}
		s.settings = store
	case "redis":
		if s.cache == nil {
			return errors.New("init settings: redis backend requires redis.enabled")
		}
		s.settings = settings.NewRedisStore(s.cache.Client(), s.cfg.Settings.RedisPrefix)
	case "sql":
		if s.db == nil {
			return errors.New("init settings: sql backend requires database.driver")
		}
		store, err := settings.NewSQLStore(s.db)
		if err != nil {
			return fmt.Errorf("init settings: %w", err)
		}
		s.settings = store
	default:
		s.settings = settings.NewMemoryStore()
	}
	return nil
}

func (s *Server) initProviders() {
	credentials := generation.NewCredentialAccessor(s.settings, s.cfg.Settings.Key, s.logger)
	dispatcher := generation.NewDispatcher(generation.DispatcherConfig{
		Endpoint: s.cfg.Providers.GenerationEndpoint,
		Timeout:  s.cfg.Providers.Timeout,
	}, s.logger, generation.WithRecorder(s.collector))

	s.registry = providers.RegisterAll(generation.NewRegistry(), providers.Deps{
		Credentials: credentials,
		Dispatcher:  dispatcher,
		Logger:      s.logger,
	})
}

func (s *Server) initCommunity() {
	opts := []community.Option{
		community.WithRecorder(s.collector),
		community.WithTracerProvider(s.telemetry.TracerProvider()),
	}

	switch s.cfg.Community.CacheBackend {
	case "redis":
		if s.cache != nil {
			opts = append(opts, community.WithCache(community.NewRedisCache(s.cache, s.logger)))
		}
	case "memory":
		opts = append(opts, community.WithCache(community.NewMemoryCache(s.cfg.Community.CacheSize, s.cfg.Community.FreshnessTTL)))
	}

	s.proxy = community.NewProxy(community.Config{
		MetadataBaseURL: s.cfg.Community.MetadataBaseURL,
		Timeout:         s.cfg.Community.Timeout,
		FreshnessTTL:    s.cfg.Community.FreshnessTTL,
		MaxPayloadBytes: s.cfg.Community.MaxPayloadBytes,
		CacheBackend:    s.cfg.Community.CacheBackend,
	}, s.logger, opts...)
}

// =============================================================================
// 🌐 路由与中间件
// =============================================================================

// publicPaths 不需要认证的路径；以 "/" 结尾的按前缀匹配
var publicPaths = []string{"/health", "/healthz", "/ready", "/readyz", "/version", "/community-workflows/"}

// Handler 构建带中间件链的 API 处理器；ctx 结束时停止限流器的清理协程
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health.HandleHealth)
	mux.HandleFunc("GET /healthz", s.health.HandleHealth)
	mux.HandleFunc("GET /ready", s.health.HandleReady)
	mux.HandleFunc("GET /readyz", s.health.HandleReady)
	mux.HandleFunc("GET /version", s.health.HandleVersion(BuildTime, GitCommit))

	handlers.NewProviderHandler(s.registry, s.logger).Routes(mux)
	handlers.NewCommunityHandler(s.proxy, s.logger).Routes(mux)

	chain := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		OTelTracing(s.telemetry.TracerProvider()),
		MetricsMiddleware(s.collector),
		RequestLogger(s.logger),
		CORS(s.cfg.Server.CORSAllowedOrigins),
	}
	if s.cfg.Server.RateLimitRPS > 0 {
		chain = append(chain, RateLimiter(ctx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger))
	}
	if len(s.cfg.Server.APIKeys) > 0 {
		chain = append(chain, APIKeyAuth(s.cfg.Server.APIKeys, publicPaths, s.cfg.Server.AllowQueryAPIKey, s.logger))
	}
	if s.cfg.Server.JWT.Enabled {
		chain = append(chain, JWTAuth(s.cfg.Server.JWT, publicPaths, s.logger))
	}

	return Chain(mux, chain...)
}

func (s *Server) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{Registry: s.promRegistry}))
	return mux
}

func (s *Server) httpServerConfig() server.Config {
	return server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     s.cfg.Server.IdleTimeout,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
		TLSCertFile:     s.cfg.Server.TLSCertFile,
		TLSKeyFile:      s.cfg.Server.TLSKeyFile,
	}
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// close 释放外部资源，服务器停止后调用
func (s *Server) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
	defer cancel()

	if s.pool != nil {
		if err := s.pool.Close(); err != nil {
			s.logger.Error("Database pool shutdown error", zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("Redis shutdown error", zap.Error(err))
		}
	}
	if err := s.telemetry.Shutdown(ctx); err != nil {
		s.logger.Warn("Telemetry shutdown error", zap.Error(err))
	}

	s.logger.Info("Graceful shutdown completed")
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.Server.ShutdownTimeout > 0 {
		return s.cfg.Server.ShutdownTimeout
	}
	return 30 * time.Second
}
