// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 GenStudio HTTP API 的请求处理器实现。

# 概述

所有 Handler 均遵循标准 net/http 接口，路由通过 Go 1.22 的
ServeMux 模式（方法 + 路径参数）注册。

# 核心类型

  - ProviderHandler  — 提供者列表、模型列表/搜索/查询与生成请求
  - CommunityHandler — 社区工作流两跳代理的 HTTP 出口
  - HealthHandler    — 存活与就绪检查（/health, /healthz, /ready, /readyz）
  - Response         — 统一 JSON 响应结构（success + data + error + timestamp）
  - ResponseWriter   — 包装 http.ResponseWriter 以捕获状态码与字节数

# 响应形态

提供者查询接口使用统一的 Response 信封。生成接口直接返回
GenerationOutput，成功时为生成端点的原始响应体；失败时状态码
由错误码决定。社区工作流接口返回 {success, workflow} 或
{success:false, error}，状态码沿用代理给出的状态。
*/
package handlers
