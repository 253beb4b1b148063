package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/infrastructure/memory"
	"github.com/jhoicas/hospital-contable/internal/infrastructure/redis"
)

func setupSequence(t *testing.T) (*redis.Sequence, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewSequence(client), mr
}

func TestSequence_ArrancaEnUnoSinComprobantes(t *testing.T) {
	seq, mr := setupSequence(t)
	store := memory.NewStore()
	ctx := context.Background()

	n, err := seq.Next(ctx, store.Entries(), store.Counters(), "AC", 2025)
	require.NoError(t, err)
	assert.Equal(t, "AC-2025-00001", n)

	n, err = seq.Next(ctx, store.Entries(), store.Counters(), "AC", 2025)
	require.NoError(t, err)
	assert.Equal(t, "AC-2025-00002", n)

	v, err := mr.Get("ledger:seq:AC:2025")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestSequence_SiembraDesdeElMayorPersistido(t *testing.T) {
	seq, _ := setupSequence(t)
	store := memory.NewStore()
	ctx := context.Background()
	store.AddPeriod(&entity.AccountingPeriod{ID: "p1", Year: 2025, Status: entity.PeriodStatusOpen})
	require.NoError(t, store.Entries().Create(ctx, &entity.JournalEntry{ID: "e1", Number: "AC-2025-00041", PeriodID: "p1"}))

	n, err := seq.Next(ctx, store.Entries(), store.Counters(), "AC", 2025)
	require.NoError(t, err)
	assert.Equal(t, "AC-2025-00042", n)
}

func TestSequence_EspacioPorAnio(t *testing.T) {
	seq, _ := setupSequence(t)
	store := memory.NewStore()
	ctx := context.Background()

	_, err := seq.Next(ctx, store.Entries(), store.Counters(), "AC", 2025)
	require.NoError(t, err)
	n, err := seq.Next(ctx, store.Entries(), store.Counters(), "AC", 2026)
	require.NoError(t, err)
	assert.Equal(t, "AC-2026-00001", n, "cada año tiene su propio contador")
}

func TestSequence_ErrorDeRedisSePropaga(t *testing.T) {
	seq, mr := setupSequence(t)
	store := memory.NewStore()
	mr.Close()

	_, err := seq.Next(context.Background(), store.Entries(), store.Counters(), "AC", 2025)
	assert.Error(t, err)
}
