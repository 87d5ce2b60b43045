// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
Package settings 提供进程外键值存储的统一抽象，用于保存前端写入的
命名空间化设置 blob（其中包含各 Provider 的 API Key）。

# 核心接口

  - Store    — 只读键值访问（Get）
  - Writer   — 可选写入能力（Set），供初始化与测试使用
  - ErrKeyNotFound — 键不存在时返回的哨兵错误

# 内置实现

  - MemoryStore：进程内 map，适合测试与单机开发
  - FileStore：目录内每个键一个文件，原子写入
  - RedisStore：基于 go-redis 的共享存储，支持键前缀
  - SQLStore：基于 GORM 的表存储（sqlite / postgres / mysql）
*/
package settings
