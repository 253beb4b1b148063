// Package redis implementa la numeración de comprobantes con un contador INCR en Redis.
package redis

import (
	"context"
	"fmt"

	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
	"github.com/jhoicas/hospital-contable/pkg/config"
	"github.com/redis/go-redis/v9"
)

var _ ledger.SequenceGenerator = (*Sequence)(nil)

// KeyPrefix prefijo de las claves de contador: ledger:seq:<PREFIX>:<YEAR>.
const KeyPrefix = "ledger:seq"

// Sequence genera números con INCR atómico. Si la clave no existe se siembra con SETNX
// desde el mayor número persistido. Un create que hace rollback deja un hueco, nunca un duplicado.
type Sequence struct {
	client redis.UniversalClient
}

// NewSequence construye el generador sobre un cliente ya conectado.
func NewSequence(client redis.UniversalClient) *Sequence {
	return &Sequence{client: client}
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Key devuelve la clave del contador de (prefix, year).
func Key(prefix string, year int) string {
	return fmt.Sprintf("%s:%s:%d", KeyPrefix, prefix, year)
}

func (s *Sequence) Next(ctx context.Context,
	entryRepo repository.JournalEntryRepository,
	_ repository.SequenceCounterRepository,
	prefix string, year int,
) (string, error) {
	key := Key(prefix, year)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("redis exists %s: %w", key, err)
	}
	if exists == 0 {
		last, err := entryRepo.LastNumber(ctx, prefix, year)
		if err != nil {
			return "", fmt.Errorf("último número: %w", err)
		}
		var seed int64
		if last != "" {
			if seed, err = accounting.ParseSequence(last, prefix, year); err != nil {
				return "", err
			}
		}
		if err := s.client.SetNX(ctx, key, seed, 0).Err(); err != nil {
			return "", fmt.Errorf("redis setnx %s: %w", key, err)
		}
	}

	seq, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("redis incr %s: %w", key, err)
	}
	return accounting.FormatNumber(prefix, year, seq), nil
}
