package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/dependencies/mocks"
	"github.com/Xushengqwer/actor_hub/initialization"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/testutil"
	"github.com/Xushengqwer/actor_hub/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterCustomValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestEngine(t *testing.T) *apiClient {
	t.Helper()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.ActorHubConfig{
		ServerConfig: config.ServerConfig{Mode: gin.TestMode, RequestTimeout: 5},
		JWTConfig:    config.JWTConfig{SecretKey: "test-secret", Issuer: "actor-hub-test", ExpireMinutes: 60},
		CORSConfig:   config.CORSConfig{AllowOrigins: []string{"*"}},
	}
	deps := &initialization.AppDependencies{
		Config:      cfg,
		Logger:      testutil.NewLogger(),
		DB:          db,
		RedisClient: client,
		JwtToken:    dependencies.NewJWTUtility(&cfg.JWTConfig),
		Storage:     mocks.NewMockObjectStorage(gomock.NewController(t)),
	}
	engine := SetupRouter(deps.Logger, cfg, initialization.SetupServices(deps))

	testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	return &apiClient{t: t, engine: engine}
}

func (a *apiClient) do(method, path, token string, body interface{}) (int, response.APIResponse[json.RawMessage]) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp response.APIResponse[json.RawMessage]
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (a *apiClient) login(username, password string) string {
	a.t.Helper()
	status, resp := a.do(http.MethodPost, "/api/v1/system/auth/login/json", "", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, status, resp.Message)
	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(resp.Data, &data))
	return data.AccessToken
}

func TestRegistrationFlowOverHTTP(t *testing.T) {
	api := newTestEngine(t)
	adminToken := api.login("admin01", testutil.DefaultPassword)

	// 管理员创建经纪人
	status, resp := api.do(http.MethodPost, "/api/v1/system/register/manager", adminToken, gin.H{
		"username": "agent01", "password": "abc12345", "phone": "13911112222",
	})
	require.Equal(t, http.StatusOK, status, resp.Message)

	// 经纪人生成邀请码
	managerToken := api.login("agent01", "abc12345")
	status, resp = api.do(http.MethodPost, "/api/v1/invite-codes", managerToken, nil)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var invite struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &invite))
	require.Len(t, invite.Code, 6)

	// 公开校验
	status, _ = api.do(http.MethodGet, "/api/v1/invite-codes/verify/"+invite.Code, "", nil)
	assert.Equal(t, http.StatusOK, status)

	// 演员凭邀请码注册并登录
	status, resp = api.do(http.MethodPost, "/api/v1/system/register/performer", "", gin.H{
		"username": "lilei", "password": "abc12345", "phone": "13933334444", "invite_code": invite.Code,
	})
	require.Equal(t, http.StatusOK, status, resp.Message)
	performerToken := api.login("lilei", "abc12345")

	status, resp = api.do(http.MethodGet, "/api/v1/actors/me", performerToken, nil)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var actor struct {
		RealName string `json:"real_name"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &actor))
	assert.Equal(t, "lilei", actor.RealName)

	// 演员不能访问用户管理与邀请码接口
	status, _ = api.do(http.MethodGet, "/api/v1/system/users", performerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = api.do(http.MethodPost, "/api/v1/invite-codes", performerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRoutesRejectBadRequests(t *testing.T) {
	api := newTestEngine(t)

	status, resp := api.do(http.MethodGet, "/api/v1/actors", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotZero(t, resp.Code)

	status, _ = api.do(http.MethodPost, "/api/v1/system/auth/login/json", "", gin.H{"username": "admin01", "password": "wrong-pass1"})
	assert.Equal(t, http.StatusUnauthorized, status)

	// 格式不合法的注册请求在绑定阶段被拒绝
	status, _ = api.do(http.MethodPost, "/api/v1/system/register/performer", "", gin.H{
		"username": "x", "password": "short", "phone": "123", "invite_code": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	adminToken := api.login("admin01", testutil.DefaultPassword)
	status, _ = api.do(http.MethodGet, "/api/v1/system/users/abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// 非正数 limit 按默认上限处理
	status, _ = api.do(http.MethodGet, "/api/v1/system/users?limit=-1", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodGet, "/api/v1/actors/does-not-exist", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// 注销后令牌失效
	status, _ = api.do(http.MethodPost, "/api/v1/system/auth/logout", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodGet, "/api/v1/system/auth/me", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
