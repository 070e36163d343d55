package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/abordodesign/habitofit/internal/models"
)

const favoritesCacheKeyPrefix = "favorites:"

// redisFavoritesCache is a Redis-backed implementation of FavoritesCache.
// One JSON blob per user under favorites:{uid}. The blob is advisory: the
// favorites collection in Firestore is the source of truth and the cache is
// rewritten from it after every read-through.
type redisFavoritesCache struct {
	client *redis.Client
}

// NewRedisFavoritesCache creates a RedisFavoritesCache and verifies the
// connection.
func NewRedisFavoritesCache(ctx context.Context, addr, password string, dbIndex int) (FavoritesCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	log.Println("Successfully connected to Redis")
	return &redisFavoritesCache{client: rdb}, nil
}

// Get returns the cached favorites list. A missing key or a blob that does
// not decode as a list is treated as an empty cache, never an error.
func (c *redisFavoritesCache) Get(ctx context.Context, userID string) ([]*models.Favorite, error) {
	raw, err := c.client.Get(ctx, favoritesCacheKeyPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites cache for user '%s': %w", userID, err)
	}
	return decodeFavoritesBlob(userID, []byte(raw)), nil
}

// decodeFavoritesBlob decodes a cached favorites blob. A blob that does not
// decode as a list counts as an empty cache: the caller falls back to the
// canonical store rather than failing the request.
func decodeFavoritesBlob(userID string, blob []byte) []*models.Favorite {
	var favs []*models.Favorite
	if err := json.Unmarshal(blob, &favs); err != nil {
		log.Printf("Favorites cache for user '%s' holds invalid JSON, treating as empty: %v", userID, err)
		return nil
	}
	return favs
}

// Put replaces the cached favorites list.
func (c *redisFavoritesCache) Put(ctx context.Context, userID string, favs []*models.Favorite) error {
	if favs == nil {
		favs = []*models.Favorite{}
	}
	blob, err := json.Marshal(favs)
	if err != nil {
		return fmt.Errorf("failed to encode favorites cache for user '%s': %w", userID, err)
	}
	if err := c.client.Set(ctx, favoritesCacheKeyPrefix+userID, blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to write favorites cache for user '%s': %w", userID, err)
	}
	return nil
}
