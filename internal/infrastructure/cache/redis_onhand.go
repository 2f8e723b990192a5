package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/pkg/config"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

var _ ports.OnHandCache = (*OnHandCache)(nil)

const keyPrefix = "onhand:"

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// OnHandCache guarda existencias por dueño con TTL. Los errores de Redis solo se registran:
// una falla del cache degrada a leer de la base, nunca a fallar la petición.
type OnHandCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewOnHandCache construye el cache. ttl <= 0 usa 30 segundos.
func NewOnHandCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *OnHandCache {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &OnHandCache{client: client, ttl: ttl, log: log}
}

func key(o entity.StockOwner) string {
	return keyPrefix + o.Kind + ":" + o.ID
}

// Get devuelve la existencia cacheada, si hay.
func (c *OnHandCache) Get(ctx context.Context, owner entity.StockOwner) (int64, bool) {
	n, err := c.client.Get(ctx, key(owner)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("owner", key(owner)).Msg("onhand cache get")
		}
		return 0, false
	}
	return n, true
}

// Set guarda la existencia con el TTL configurado, pisando lo que haya. Lo usan los
// escritores después del commit.
func (c *OnHandCache) Set(ctx context.Context, owner entity.StockOwner, qty int64) {
	if err := c.client.Set(ctx, key(owner), qty, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("owner", key(owner)).Msg("onhand cache set")
	}
}

// SetIfAbsent guarda la existencia solo si no hay entrada (SET NX). Lo usa el camino de
// lectura: un lector tardío no pisa el valor que un escritor dejó después de su commit.
func (c *OnHandCache) SetIfAbsent(ctx context.Context, owner entity.StockOwner, qty int64) {
	if err := c.client.SetNX(ctx, key(owner), qty, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("owner", key(owner)).Msg("onhand cache setnx")
	}
}

// Invalidate borra las entradas de los dueños indicados.
func (c *OnHandCache) Invalidate(ctx context.Context, owners ...entity.StockOwner) {
	if len(owners) == 0 {
		return
	}
	keys := make([]string, 0, len(owners))
	for _, o := range owners {
		keys = append(keys, key(o))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("onhand cache invalidate")
	}
}
