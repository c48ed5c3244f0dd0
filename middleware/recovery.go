package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/response"
)

// ErrorHandlingMiddleware 捕获后续处理链中的 panic，记录堆栈并返回统一的 500 响应。
func ErrorHandlingMiddleware(logger *core.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("请求处理发生 panic",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("panic", fmt.Sprint(r)),
					zap.ByteString("stack", debug.Stack()),
					traceField(c),
				)
				if !c.Writer.Written() {
					response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "服务器内部错误")
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
