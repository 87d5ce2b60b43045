// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

// Package config 提供 GenStudio 的配置管理功能。
//
// 配置按 默认值 → YAML 文件 → 环境变量（GENSTUDIO_ 前缀）的顺序叠加，
// 覆盖服务器、日志、遥测、Redis、数据库、设置存储、生成服务
// 与社区工作流代理各部分，并由 Validate 做整体校验。
package config
