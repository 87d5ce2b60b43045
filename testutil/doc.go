// Copyright (c) GenStudio Authors.
// Licensed under the MIT License.

/*
Package testutil 提供 GenStudio 测试的共享工具和辅助函数。

# 概述

testutil 包为跨包的 HTTP 与端到端测试提供统一的辅助能力，
避免各包重复实现相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 断言工具: AssertErrorCode 校验 *types.Error 的错误码与状态码
  - 异步断言: AssertEventuallyTrue / WaitFor
  - 数据工具: MustJSON / MustParseJSON

# 子包

  - testutil/mocks: Provider（generation.Provider 模拟，Builder 模式）、
    GenerationEndpoint（记录请求的本地生成端点）、
    CommunityUpstream（社区元数据服务与签名存储）
  - testutil/fixtures: 样例工作流、设置 blob 构造、生成端点响应

# 使用示例

	ctx := testutil.TestContext(t)
	p := mocks.NewProvider("stub", "Stub").WithAPIKey("k")
	up := mocks.NewCommunityUpstream(t, fixtures.CommunityWorkflows())
*/
package testutil
