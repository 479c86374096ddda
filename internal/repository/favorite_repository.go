package repository

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const favoriteKeyPrefix = "favorites:"

// FavoriteRepository keeps each viewer's favorite course ids in a
// redis set.
type FavoriteRepository struct {
	Redis *redis.Client
}

func NewFavoriteRepository(rdb *redis.Client) *FavoriteRepository {
	return &FavoriteRepository{Redis: rdb}
}

func (r *FavoriteRepository) Add(ctx context.Context, viewerID, courseID string) error {
	return r.Redis.SAdd(ctx, favoriteKeyPrefix+viewerID, courseID).Err()
}

func (r *FavoriteRepository) Remove(ctx context.Context, viewerID, courseID string) error {
	return r.Redis.SRem(ctx, favoriteKeyPrefix+viewerID, courseID).Err()
}

func (r *FavoriteRepository) List(ctx context.Context, viewerID string) ([]string, error) {
	return r.Redis.SMembers(ctx, favoriteKeyPrefix+viewerID).Result()
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, viewerID, courseID string) (bool, error) {
	return r.Redis.SIsMember(ctx, favoriteKeyPrefix+viewerID, courseID).Result()
}
