// Package storage contains the local cache store interface.
package storage

import (
	"context"
	"fmt"

	"github.com/pulsefit/atalanta/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = fmt.Errorf("not found")

// Storage provides methods for interacting with the on-device cache.
//
// Writers that must be atomic from a reader's perspective (clear-then-upsert
// of a whole snapshot) run inside InTx.
type Storage interface {
	InTx(ctx context.Context, f func(s Storage) error) error

	UpsertPost(ctx context.Context, p *entities.Post) error
	UpsertPosts(ctx context.Context, pp []*entities.Post) error
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*entities.Post, error)
	DeletePost(ctx context.Context, id string) error

	ReplaceAchievements(ctx context.Context, aa []*entities.Achievement) error
	ListAchievements(ctx context.Context) ([]*entities.Achievement, error)

	ReplaceUserAchievements(ctx context.Context, userID string, aa []*entities.UserAchievement) error
	ListUserAchievements(ctx context.Context, userID string) ([]*entities.UserAchievement, error)

	UpsertUserXP(ctx context.Context, xp *entities.UserXP) error
	GetUserXP(ctx context.Context, userID string) (*entities.UserXP, error)

	UpsertProfile(ctx context.Context, p *entities.Profile) error
	GetProfile(ctx context.Context, username string) (*entities.Profile, error)

	Clear(ctx context.Context) error
}
