package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/actor_hub/commonerrors"
)

func TestRespondAppErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", commonerrors.NewValidation("部分标签不存在"), http.StatusBadRequest, "部分标签不存在"},
		{"conflict", commonerrors.NewConflict("用户名已存在"), http.StatusBadRequest, "用户名已存在"},
		{"forbidden", commonerrors.NewForbidden("权限不足"), http.StatusForbidden, "权限不足"},
		{"not found", commonerrors.NewNotFound("演员不存在"), http.StatusNotFound, "演员不存在"},
		{"storage", commonerrors.NewStorage("文件上传失败", errors.New("x")), http.StatusBadGateway, "文件上传失败"},
		{"internal", commonerrors.NewInternal(errors.New("secret dsn")), http.StatusInternalServerError, commonerrors.ErrSystemError.Error()},
		{"plain", errors.New("boom"), http.StatusInternalServerError, commonerrors.ErrSystemError.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondAppError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body APIResponse[any]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body.Message)
			assert.NotContains(t, w.Body.String(), "secret dsn")
		})
	}
}
