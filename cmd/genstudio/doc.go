// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
Package main 提供 GenStudio 服务端程序入口。

# 概述

cmd/genstudio 是 GenStudio 后端的可执行入口，提供 HTTP API 服务、
健康检查和版本查询等子命令。程序支持 YAML 配置文件与环境变量加载、
结构化日志（zap）、Prometheus 指标采集以及 OpenTelemetry 追踪。

# 核心类型

  - Server     — 主服务器，组装设置存储、provider 注册表、社区代理，管理 API 与 Metrics 双端口
  - Middleware — HTTP 中间件函数签名 func(http.Handler) http.Handler

# 主要能力

  - 子命令：serve（启动服务）、version、health（探测 /health 或 /ready）
  - 中间件链：Recovery、RequestID、SecurityHeaders、OTelTracing、
    Metrics、RequestLogger、CORS、RateLimiter（基于 IP）、
    APIKeyAuth（X-API-Key / query 参数）、JWTAuth（HS256）
  - 公开路径：健康检查与 /community-workflows/{id} 不经过鉴权
  - Metrics 服务器：独立端口暴露 /metrics，使用专用 Prometheus Registry
  - 优雅关闭：signal.NotifyContext → errgroup 中各 Manager 关闭 → 释放 Redis、数据库、遥测
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
