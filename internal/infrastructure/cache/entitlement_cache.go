package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/pkg/config"
)

// EntitlementCache caché Redis de los entitlements por tenant. La consultan
// con frecuencia los gateways de producto (HRMS, POS, CRM) para decidir
// acceso a módulos, así que la lectura evita la DB cuando hay hit.
type EntitlementCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New conecta con Redis y devuelve la caché. Error si el ping falla.
func New(ctx context.Context, cfg config.RedisConfig) (*EntitlementCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectar a Redis %s: %w", cfg.Addr, err)
	}
	return &EntitlementCache{client: client, ttl: time.Duration(cfg.TTLSeconds) * time.Second}, nil
}

func key(tenantID string) string {
	return "tenant:entitlements:" + tenantID
}

// Get devuelve los entitlements cacheados; (nil, nil) en miss.
func (c *EntitlementCache) Get(ctx context.Context, tenantID string) (*entity.Entitlement, error) {
	raw, err := c.client.Get(ctx, key(tenantID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var ent entity.Entitlement
	if err := json.Unmarshal(raw, &ent); err != nil {
		// Entrada corrupta: se descarta y se fuerza el miss.
		_ = c.client.Del(ctx, key(tenantID)).Err()
		return nil, nil
	}
	return &ent, nil
}

// Set guarda los entitlements con el TTL configurado.
func (c *EntitlementCache) Set(ctx context.Context, tenantID string, ent entity.Entitlement) error {
	raw, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key(tenantID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate borra la entrada del tenant (tras update o delete).
func (c *EntitlementCache) Invalidate(ctx context.Context, tenantID string) error {
	if err := c.client.Del(ctx, key(tenantID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Close cierra la conexión con Redis.
func (c *EntitlementCache) Close() error {
	return c.client.Close()
}
