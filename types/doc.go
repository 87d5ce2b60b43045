// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
Package types 提供 GenStudio 服务的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 generation、community、
api 等上层模块提供统一的错误码与 context 传播约定。

# 核心类型

  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码与底层原因
  - StatusFor         — 错误码到 HTTP 状态码的统一映射

# 主要能力

  - Context 传播：WithRequestID / WithTenantID / WithUserID
  - 错误工具链：AsError / IsErrorCode / GetErrorCode
*/
package types
