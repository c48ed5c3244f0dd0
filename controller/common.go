package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/middleware"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/guard"
)

const msgInvalidInput = "请求数据无效"

// callerOrAbort 取出当前调用者；未认证时直接写出 401
func callerOrAbort(c *gin.Context) (guard.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "用户未认证")
		return guard.Caller{}, false
	}
	return caller, true
}

// uintParam 解析路径中的数字 ID，非法时写出 400
func uintParam(c *gin.Context, logger *core.ZapLogger, operation, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logger.Warn("路径参数无效", zap.String("operation", operation), zap.String("param", name), zap.String("value", raw))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的"+name)
		return 0, false
	}
	return uint(id), true
}

// bindFailed 记录参数绑定失败并返回 400
func bindFailed(c *gin.Context, logger *core.ZapLogger, operation string, err error) {
	logger.Warn("请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
	response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, msgInvalidInput)
}
