// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
包 community 实现社区工作流的两跳代理。

# 概述

Proxy.Get 先向元数据服务解析工作流 ID，得到短期有效的签名下载地址，
再直接从该地址拉取 JSON 文档并原样返回。两个阶段共享同一个截止时间，
任一阶段超时都归类为 TIMEOUT；调用方取消归类为 REQUEST_CANCELED。

# 失败分类

  - NOT_FOUND：元数据服务返回 404，消息包含请求的 ID。
  - RESOLUTION_FAILED：元数据服务返回其他错误或无效描述符。
  - DOWNLOAD_FAILED：签名地址不可达或返回非 2xx。
  - TIMEOUT / REQUEST_CANCELED：共享截止时间到期或调用方取消。

通用失败分支只记录上游状态，不向调用方回显。

# 描述符缓存

DescriptorCache 在新鲜度窗口内复用已解析的描述符，
提供进程内 MemoryCache（golang-lru expirable）与基于 internal/cache 的
RedisCache 两种实现。签名地址只保证一次可用：下载失败时丢弃缓存的描述符，
若该描述符来自缓存则绕过缓存重新解析一次。
*/
package community
