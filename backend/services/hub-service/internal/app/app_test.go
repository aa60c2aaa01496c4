package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roamhub/backend/services/hub-service/internal/config"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.Port = "0"
	cfg.HTTP.ReadTimeout = time.Second
	cfg.HTTP.MaxBodySize = 1 << 20
	cfg.Auth.JWTSecret = "secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Authorization.ProviderID = "DE-GDF"
	cfg.Authorization.UIDs = []string{"1234ABCD"}
	cfg.Authorization.PINs = []string{"DE-GDF-C12345678-X=1234"}
	cfg.WebSocket.PingInterval = time.Second
	cfg.WebSocket.WriteTimeout = time.Second
	return cfg
}

func TestNewWithoutBackends(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.server)
	assert.Nil(t, a.db)
	assert.Nil(t, a.redis)
	assert.Nil(t, a.broker)
}

func TestNewRejectsBadPolicy(t *testing.T) {
	cfg := memoryConfig()
	cfg.Authorization.UIDs = []string{"not a uid"}
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRunStopsWithContext(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
