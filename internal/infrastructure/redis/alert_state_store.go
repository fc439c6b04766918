// Package redis estado de deduplicación de alertas compartido entre instancias.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	"github.com/jhoicas/fulfillment-core/pkg/config"
)

const defaultKeyPrefix = "fulfillment:alert:"

var _ repository.AlertStateStore = (*AlertStateStore)(nil)

// AlertStateStore una clave por (bandera, producto): "<prefix>zero_<id>" / "<prefix>low_<id>".
// MarkIfAbsent usa SETNX, así que entre varias instancias solo una emite cada alerta.
type AlertStateStore struct {
	client    goredis.UniversalClient
	keyPrefix string
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewAlertStateStore construye el store sobre un cliente existente. keyPrefix vacío usa el predeterminado.
func NewAlertStateStore(client goredis.UniversalClient, keyPrefix string) *AlertStateStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &AlertStateStore{client: client, keyPrefix: keyPrefix}
}

func (s *AlertStateStore) key(productID string, flag entity.AlertState) string {
	return s.keyPrefix + flag.Key() + "_" + productID
}

// MarkIfAbsent SETNX sin TTL: la bandera vive hasta que se limpia.
func (s *AlertStateStore) MarkIfAbsent(ctx context.Context, productID string, flag entity.AlertState) (bool, error) {
	if flag.Key() == "" {
		return false, fmt.Errorf("bandera de alerta inválida: %d", flag)
	}
	ok, err := s.client.SetNX(ctx, s.key(productID, flag), "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("marcar alerta: %w", err)
	}
	return ok, nil
}

// Clear borra las claves de las banderas indicadas.
func (s *AlertStateStore) Clear(ctx context.Context, productID string, flags entity.AlertState) error {
	keys := s.keysFor(productID, flags)
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("limpiar alertas: %w", err)
	}
	return nil
}

// Get reconstruye las banderas desde las claves existentes.
func (s *AlertStateStore) Get(ctx context.Context, productID string) (entity.AlertState, error) {
	state := entity.AlertNone
	for _, flag := range []entity.AlertState{entity.AlertLowSent, entity.AlertZeroSent} {
		n, err := s.client.Exists(ctx, s.key(productID, flag)).Result()
		if err != nil {
			return entity.AlertNone, fmt.Errorf("leer alerta: %w", err)
		}
		if n > 0 {
			state = state.With(flag)
		}
	}
	return state, nil
}

func (s *AlertStateStore) keysFor(productID string, flags entity.AlertState) []string {
	var keys []string
	for _, flag := range []entity.AlertState{entity.AlertLowSent, entity.AlertZeroSent} {
		if flags.Has(flag) {
			keys = append(keys, s.key(productID, flag))
		}
	}
	return keys
}
