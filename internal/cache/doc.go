// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
包 cache 提供基于 Redis 的缓存管理能力。

# 概述

Manager 封装 go-redis 客户端，负责连接生命周期（初始化、健康检查、
优雅关闭），并通过 Client 将同一连接池共享给设置存储等组件。
社区工作流描述符的新鲜度缓存即构建在 Manager 之上。

# 核心类型

  - Manager：提供 Get/Set/Delete/Ping，以及 GetJSON/SetJSON 便捷方法；
    所有键自动加上 KeyPrefix。
  - Config：地址、密码、连接池、默认 TTL、TLS 开关与健康检查间隔。

# 错误语义

  - ErrCacheMiss / IsCacheMiss：键不存在。
  - ErrClosed：Manager 已关闭后的任何调用。
*/
package cache
