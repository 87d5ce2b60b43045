// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
包 database 负责打开设置存储所用的 SQL 数据库，并管理其连接池。

# 核心类型

  - Open / Dialector：按驱动名（sqlite、postgres、mysql）构造 GORM 连接。
  - PoolManager：持有 GORM DB 与底层 sql.DB，提供 DB、Ping、Stats、Close；
    后台健康检查定时探活，并通过 StatsRecorder 上报连接数指标。
  - PoolConfig：最大空闲/打开连接数、连接生命周期与健康检查间隔。
*/
package database
