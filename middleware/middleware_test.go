package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/repository/redis"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/auth"
	"github.com/Xushengqwer/actor_hub/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.APIResponse[map[string]interface{}] {
	t.Helper()
	var body response.APIResponse[map[string]interface{}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newAuthService(t *testing.T) (auth.AuthService, func(username string, role enums.UserRole) (string, *entities.User)) {
	t.Helper()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := auth.NewAuthService(
		mysql.NewUserRepository(db),
		redis.NewTokenBlacklistRepo(client),
		redis.NewLoginAttemptRepo(client),
		dependencies.NewJWTUtility(&config.JWTConfig{SecretKey: "test-secret", Issuer: "actor-hub-test", ExpireMinutes: 60}),
		db,
		testutil.NewLogger(),
	)
	login := func(username string, role enums.UserRole) (string, *entities.User) {
		user := testutil.CreateUser(t, db, username, role)
		res, err := svc.Login(context.Background(), &dto.LoginDTO{Username: username, Password: testutil.DefaultPassword})
		require.NoError(t, err)
		return res.AccessToken, user
	}
	return svc, login
}

func TestAuthMiddleware(t *testing.T) {
	svc, login := newAuthService(t)
	token, user := login("agent01", enums.RoleManager)

	r := gin.New()
	r.GET("/me", AuthMiddleware(svc), func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		require.True(t, ok)
		claims, ok := CurrentClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": caller.UserID, "role": caller.Role, "jti": claims.ID})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"缺少令牌", "", http.StatusUnauthorized},
		{"格式错误", "Token " + token, http.StatusUnauthorized},
		{"令牌无效", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"正常", "Bearer " + token, http.StatusOK},
		{"大小写不敏感", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, user.ID, body["id"])
	assert.Equal(t, string(enums.RoleManager), body["role"])
	assert.NotEmpty(t, body["jti"])
}

func TestRequireRoles(t *testing.T) {
	svc, login := newAuthService(t)
	managerToken, _ := login("agent01", enums.RoleManager)
	performerToken, _ := login("actor01", enums.RolePerformer)

	r := gin.New()
	r.GET("/staff", AuthMiddleware(svc), RequireRoles(enums.RoleManager, enums.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	// 未挂 AuthMiddleware 时视为未登录
	r.GET("/bare", RequireRoles(enums.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do("/staff", managerToken).Code)

	w := do("/staff", performerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, msgRoleForbidden, decode(t, w).Message)

	assert.Equal(t, http.StatusUnauthorized, do("/bare", "").Code)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 2})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("1.1.1.1"))
	assert.True(t, limiter.Allow("1.1.1.1"))
	assert.False(t, limiter.Allow("1.1.1.1"))
	assert.True(t, limiter.Allow("2.2.2.2"), "不同 IP 独立计数")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("1.1.1.1"))

	// 空闲过久的 IP 被清理
	now = now.Add(limiterIdleTTL + cleanupInterval + time.Second)
	limiter.Allow("3.3.3.3")
	limiter.mu.Lock()
	_, kept := limiter.visitors["2.2.2.2"]
	limiter.mu.Unlock()
	assert.False(t, kept)

	r := gin.New()
	r.Use(NewIPRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, response.ErrCodeClientTooManyRequests, decode(t, w).Code)
}

func TestErrorHandlingMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlingMiddleware(testutil.NewLogger()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.ErrCodeServerInternal, decode(t, w).Code)
}

func TestRequestTimeoutMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestLoggerMiddleware(zap.NewNop()))
	r.Use(RequestTimeoutMiddleware(testutil.NewLogger(), 20*time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
