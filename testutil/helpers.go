// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供通用的测试辅助函数
//
// 使用方法:
//
//	ctx := testutil.TestContext(t)
//	testutil.RequireErrorCode(t, err, types.ErrTimeout, http.StatusGatewayTimeout)
// =============================================================================
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/genstudio/types"
)

// =============================================================================
// 🎯 上下文辅助
// =============================================================================

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	return TestContextWithTimeout(t, 30*time.Second)
}

// TestContextWithTimeout 返回带自定义超时的测试上下文
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 🔍 断言辅助
// =============================================================================

// RequireErrorCode 断言 err 是 *types.Error 且错误码与状态码匹配
func RequireErrorCode(t *testing.T, err error, code types.ErrorCode, status int) *types.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := types.AsError(err)
	require.True(t, ok, "expected *types.Error, got %T", err)
	assert.Equal(t, code, e.Code)
	assert.Equal(t, status, e.HTTPStatus)
	return e
}

// =============================================================================
// ⏳ 等待辅助
// =============================================================================

// WaitFor 等待条件成立，超时返回 false
func WaitFor(condition func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return condition()
}
