//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodhitab/quote-service/internal/adapters/clients"
	"github.com/bodhitab/quote-service/internal/adapters/clients/acl"
	"github.com/bodhitab/quote-service/internal/adapters/netstatus"
	"github.com/bodhitab/quote-service/internal/adapters/storage"
	"github.com/bodhitab/quote-service/internal/domain"
	"github.com/bodhitab/quote-service/internal/platform/config"
)

// loadProfile loads a profile from the repository's configs directory.
func loadProfile(t *testing.T, profile string) *config.Config {
	t.Helper()
	t.Chdir("../..")

	cfg, err := config.Load(profile)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	return cfg
}

func TestConfig_BaseProfile(t *testing.T) {
	cfg := loadProfile(t, "")

	assert.Equal(t, config.StorageBackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, config.NetworkModeAuto, cfg.Network.Mode)
	assert.Equal(t, 1, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Quotes.FetchTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Quotes.CategoryCacheTTL)
}

func TestConfig_TestProfileOpensInMemoryStore(t *testing.T) {
	cfg := loadProfile(t, "test")

	assert.Equal(t, config.NetworkModeOffline, cfg.Network.Mode)
	require.Equal(t, config.StorageBackendLocal, cfg.Storage.Backend)

	store, err := storage.Open(context.Background(), &cfg.Storage)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.True(t, store.Set(ctx, "probe", []string{"a", "b"}))

	var got []string
	require.True(t, store.Get(ctx, "probe", &got))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.NoError(t, store.Check(ctx))
}

func TestConfig_OfflineModePinsMonitor(t *testing.T) {
	cfg := loadProfile(t, "test")

	monitor := netstatus.New(netstatus.ConfigFrom(&cfg.Network), nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	monitor.Run(ctx) // returns at once for pinned modes
	assert.False(t, monitor.Online(ctx))
	assert.False(t, monitor.Probe(ctx))
}

func TestConfig_AutoModeFollowsQuoteAPI(t *testing.T) {
	api := newFakeQuoteAPI()
	t.Cleanup(api.Close)

	client, err := clients.New(testClientConfig(api.server.URL))
	require.NoError(t, err)

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, HealthTimeout: time.Second})
	monitor := netstatus.New(netstatus.Config{
		Mode:          config.NetworkModeAuto,
		ProbeInterval: 20 * time.Millisecond,
		ProbeTimeout:  time.Second,
		MaxBackoff:    50 * time.Millisecond,
	}, quoteClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go monitor.Run(ctx)

	require.Eventually(t, func() bool { return monitor.Online(ctx) }, 2*time.Second, 10*time.Millisecond)

	api.down.Store(true)
	require.Eventually(t, func() bool { return !monitor.Online(ctx) }, 2*time.Second, 10*time.Millisecond)

	err = quoteClient.Check(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))

	api.down.Store(false)
	require.Eventually(t, func() bool { return monitor.Online(ctx) }, 2*time.Second, 10*time.Millisecond)
}
