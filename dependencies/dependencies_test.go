package dependencies

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

func TestJWTRoundTrip(t *testing.T) {
	util := NewJWTUtility(&config.JWTConfig{SecretKey: "k", Issuer: "actor_hub", ExpireMinutes: 30})

	token, exp, err := util.GenerateAccessToken(7, "li_wei", enums.RoleManager)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := util.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, enums.RoleManager, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTRejectsForeignIssuerAndSecret(t *testing.T) {
	ours := NewJWTUtility(&config.JWTConfig{SecretKey: "k", Issuer: "actor_hub"})
	otherIssuer := NewJWTUtility(&config.JWTConfig{SecretKey: "k", Issuer: "other"})
	otherSecret := NewJWTUtility(&config.JWTConfig{SecretKey: "x", Issuer: "actor_hub"})

	token, _, err := otherIssuer.GenerateAccessToken(1, "a", enums.RoleAdmin)
	require.NoError(t, err)
	_, err = ours.ParseAccessToken(token)
	assert.Error(t, err)

	token, _, err = otherSecret.GenerateAccessToken(1, "a", enums.RoleAdmin)
	require.NoError(t, err)
	_, err = ours.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestBuildPublicObjectURL(t *testing.T) {
	base, _ := url.Parse("http://localhost:9000/actor-media")
	assert.Equal(t, "http://localhost:9000/actor-media/photo/AC1/a.jpg", buildPublicObjectURL(base, "/photo/AC1/a.jpg"))

	cdn, _ := url.Parse("https://cdn.example.com")
	assert.Equal(t, "https://cdn.example.com/avatar/AC1/x.jpg", buildPublicObjectURL(cdn, "avatar/AC1/x.jpg"))
}

func TestPreviewDSNHidesPassword(t *testing.T) {
	assert.Equal(t, "root:****@tcp(127.0.0.1:3306)/actor_hub", previewDSN("root:secret@tcp(127.0.0.1:3306)/actor_hub"))
	assert.Equal(t, "plain", previewDSN("plain"))
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &config.RedisConfig{Address: host, Port: port, DialTimeout: time.Second}
	assert.Equal(t, mr.Addr(), cfg.Addr())

	client, err := InitRedis(cfg, core.NewZapLoggerFrom(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}
