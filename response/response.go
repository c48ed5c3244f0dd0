package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/actor_hub/commonerrors"
)

// APIResponse 统一的响应结构
type APIResponse[T any] struct {
	Code    int    `json:"code"`           // 业务码，0 表示成功
	Message string `json:"message"`        // 提示信息
	Data    T      `json:"data,omitempty"` // 业务数据
}

// 业务错误码
const (
	ErrCodeSuccess = 0

	ErrCodeClientInvalidInput     = 40001
	ErrCodeClientConflict         = 40002
	ErrCodeClientUnauthorized     = 40101
	ErrCodeClientForbidden        = 40301
	ErrCodeClientResourceNotFound = 40401
	ErrCodeClientTooManyRequests  = 42901

	ErrCodeServerInternal   = 50001
	ErrCodeServerThirdParty = 50201
	ErrCodeServerTimeout    = 50401
)

// RespondSuccess 返回 200 与业务数据，message 可选
func RespondSuccess[T any](c *gin.Context, data T, message ...string) {
	msg := "success"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	c.JSON(http.StatusOK, APIResponse[T]{
		Code:    ErrCodeSuccess,
		Message: msg,
		Data:    data,
	})
}

// RespondError 返回错误响应并中止后续处理
func RespondError(c *gin.Context, httpStatus int, code int, message string) {
	c.AbortWithStatusJSON(httpStatus, APIResponse[any]{
		Code:    code,
		Message: message,
	})
}

// RespondAppError 按错误分类映射状态码，内部原因不会返回给调用方
func RespondAppError(c *gin.Context, err error) {
	status, code := StatusOf(commonerrors.KindOf(err))
	RespondError(c, status, code, commonerrors.PublicMessage(err))
}

// StatusOf 错误分类到 HTTP 状态码与业务码的映射。
// 冲突类错误（用户名已存在等）按 400 返回。
func StatusOf(kind commonerrors.Kind) (int, int) {
	switch kind {
	case commonerrors.KindValidation:
		return http.StatusBadRequest, ErrCodeClientInvalidInput
	case commonerrors.KindConflict:
		return http.StatusBadRequest, ErrCodeClientConflict
	case commonerrors.KindUnauthorized:
		return http.StatusUnauthorized, ErrCodeClientUnauthorized
	case commonerrors.KindForbidden:
		return http.StatusForbidden, ErrCodeClientForbidden
	case commonerrors.KindNotFound:
		return http.StatusNotFound, ErrCodeClientResourceNotFound
	case commonerrors.KindTooManyRequests:
		return http.StatusTooManyRequests, ErrCodeClientTooManyRequests
	case commonerrors.KindStorage:
		return http.StatusBadGateway, ErrCodeServerThirdParty
	default:
		return http.StatusInternalServerError, ErrCodeServerInternal
	}
}
