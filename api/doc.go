// Package api 描述 GenStudio 对外暴露的 HTTP API。
//
// # API Overview
//
// GenStudio 提供以下端点：
//   - GET  /community-workflows/{id}                    社区工作流（解析 + 下载两跳代理）
//   - GET  /api/v1/providers                            提供者列表及是否已配置 API key
//   - GET  /api/v1/providers/{id}/models[?q=]           模型列表与搜索
//   - GET  /api/v1/providers/{id}/models/{model...}     单个模型（模型 id 可含斜杠）
//   - POST /api/v1/providers/{id}/generate              提交生成请求
//   - GET  /health, /healthz, /ready, /readyz, /version 健康检查
//
// 指标在独立端口上以 GET /metrics 暴露。
//
// # Authentication
//
// 配置了 server.api_keys 时，/api/v1 下的端点需要 X-API-Key 请求头：
//
//	X-API-Key: your-api-key
//
// 启用 server.jwt 时也接受 Authorization: Bearer <token>。健康检查与
// 社区工作流端点不需要认证。
//
// # Base URL
//
//	http://localhost:8080
//
// 接口契约见 openapi.yaml，测试保证其路径与注册的路由一致。
// 处理器实现位于子包 handlers。
package api
