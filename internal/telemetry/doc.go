// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

// Package telemetry 封装 OpenTelemetry SDK 初始化逻辑，为 GenStudio
// 提供集中式的 TracerProvider 与 MeterProvider 配置（OTLP gRPC 导出）。
// 遥测关闭时返回 noop 实现，不连接任何外部服务；社区工作流代理的
// resolve/download span 通过 TracerProvider 接入。
package telemetry
