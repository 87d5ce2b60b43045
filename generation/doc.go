// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
Package generation 提供统一的图像/视频生成 Provider 抽象，将不同服务商的
API 规范化为同一套请求/响应契约。

# 概述

前端通过 Registry 按 ID 查找 Provider，再调用 Generate 发起生成。
Provider 的所有读操作（ListModels / SearchModels / GetModel）都以凭据
是否存在为门控：未配置凭据时返回空结果，供 UI 判断可用性。

# 核心类型

  - Provider：服务商适配器接口（模型目录、生成、配置状态）
  - Registry：显式构造、在启动时注册的 Provider 映射，后写覆盖先写
  - CredentialAccessor：从进程外键值存储读取命名空间化设置 blob 中的 API Key
  - Dispatcher：将规范化请求转发到本地生成端点，并映射状态码与传输错误
  - Catalog：静态模型目录，支持大小写不敏感的子串搜索
  - GenerationInput / GenerationOutput：统一请求与带标签的结果

# 错误处理

Generate 永不返回 Go error：所有失败均以 GenerationOutput 失败变体呈现，
并携带 types.ErrorCode（PROVIDER_UNCONFIGURED / TRANSPORT_ERROR / UPSTREAM_ERROR）。
*/
package generation
