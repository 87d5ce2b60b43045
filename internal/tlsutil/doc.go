// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

// Package tlsutil 集中管理出站 TLS 配置：社区工作流代理的 HTTP 客户端
// 与启用 TLS 的 Redis 连接都从这里取得加固后的 tls.Config。
package tlsutil
