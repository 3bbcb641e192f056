// Package redis guarda los carritos de venta en Redis (go-redis).
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/refacciones-ledger/internal/application/cart"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

const keyPrefix = "cart:"

var _ cart.Store = (*CartStore)(nil)

// NewClient crea el cliente y valida la conexión al arrancar.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: url inválida: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// CartStore un carrito por usuario, serializado en JSON bajo "cart:<userID>". Cada escritura
// renueva el TTL: un carrito inactivo expira solo.
type CartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCartStore construye el almacén.
func NewCartStore(rdb *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{rdb: rdb, ttl: ttl}
}

func (s *CartStore) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get carrito: %w", err)
	}
	var c entity.Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("redis: carrito corrupto: %w", err)
	}
	return &c, nil
}

func (s *CartStore) Save(ctx context.Context, c *entity.Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("redis: serializar carrito: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+c.UserID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set carrito: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis: del carrito: %w", err)
	}
	return nil
}
