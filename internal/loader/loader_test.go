package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olist_back_end/internal/apperr"
	"olist_back_end/internal/config"
	"olist_back_end/internal/dataset"
)

func TestReportErr(t *testing.T) {
	ok := Report{Stores: []StoreReport{{
		Store:  apperr.StorePostgres,
		Stages: []StageStats{{Stage: "customers", Read: 2, Inserted: 2}},
	}}}
	assert.NoError(t, ok.Err())
	assert.False(t, ok.Stores[0].Failed())

	stageErr := errors.New("copy failed")
	storeErr := &apperr.SourceMissing{Name: "olist_products_dataset.csv"}
	bad := Report{Stores: []StoreReport{
		{Store: apperr.StorePostgres, Stages: []StageStats{{Stage: "order_items", Err: stageErr}}},
		{Store: apperr.StoreMongo, Err: storeErr},
	}}

	err := bad.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, stageErr)
	assert.ErrorIs(t, err, apperr.ErrSourceMissing)
	assert.Contains(t, err.Error(), "PostgreSQL.order_items")
	assert.True(t, bad.Stores[0].Failed())
	assert.True(t, bad.Stores[1].Failed())

	bad.Log(zerolog.Nop())
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	assert.Equal(t, "c1", *optional("c1"))
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "olist:loader:hybrid", LockKey(config.VariantHybrid))
	assert.Equal(t, "olist:loader:relational", LockKey(config.VariantRelational))
}

func TestRunAbortsWhenPostgresUnreachable(t *testing.T) {
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Postgres.Host = "127.0.0.1"
	cfg.Postgres.Port = 1
	cfg.Postgres.ConnectTimeout = time.Second
	cfg.Loader.MaxRetries = 2
	cfg.Loader.RetryDelay = time.Millisecond

	l := New(cfg, dataset.DirSource{Dir: t.TempDir()}, zerolog.Nop())
	report, err := l.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConnection)
	assert.Empty(t, report.Stores)
	assert.NotEmpty(t, report.RunID)
}

func TestRunFailsWhenLockStoreUnreachable(t *testing.T) {
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Redis.Host = "127.0.0.1:1"

	l := New(cfg, dataset.DirSource{Dir: t.TempDir()}, zerolog.Nop())
	_, err = l.Run(context.Background())

	assert.ErrorIs(t, err, apperr.ErrConnection)
}

// busyStore simule un verrou déjà pris ; seules SetNX et Get sont utilisées.
type busyStore struct {
	redis.Scripter
	holder string
	getErr error
}

func (b busyStore) SetNX(_ context.Context, _ string, _ any, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(false, nil)
}

func (b busyStore) Get(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult(b.holder, b.getErr)
}

func TestAcquireRunLockBusy(t *testing.T) {
	key := LockKey(config.VariantHybrid)

	_, err := AcquireRunLock(context.Background(), busyStore{holder: "run-1"}, key, "run-2", time.Minute)
	require.ErrorIs(t, err, ErrLoaderBusy)
	assert.Contains(t, err.Error(), "détenu par run-1")

	tests := []struct {
		name   string
		getErr error
	}{
		{"lock expired meanwhile", redis.Nil},
		{"lookup failed", errors.New("i/o timeout")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AcquireRunLock(context.Background(), busyStore{getErr: tt.getErr}, key, "run-2", time.Minute)
			require.ErrorIs(t, err, ErrLoaderBusy)
			assert.Contains(t, err.Error(), "détenteur inconnu")
			assert.Contains(t, err.Error(), tt.getErr.Error())
			assert.NotContains(t, err.Error(), "détenu par")
		})
	}
}
