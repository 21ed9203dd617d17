// Package achievements contains the sync repository for the achievement
// catalog, per-user achievement progress and XP. Every fetch keeps the cache
// warm and serves the cached snapshot when the remote is unavailable.
package achievements

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/metrics"
	"github.com/pulsefit/atalanta/internal/remote"
	"github.com/pulsefit/atalanta/internal/storage"
)

var log = logrus.WithField("package", "achievements")

// Repository ...
type Repository struct {
	remote remote.Client
	cache  storage.Storage
}

// New creates new instance of Repository.
func New(r remote.Client, c storage.Storage) *Repository {
	return &Repository{
		remote: r,
		cache:  c,
	}
}

// Catalog fetches the global achievement catalog. On success the cached
// catalog is replaced wholesale (clear-then-upsert, one transaction) before
// the result is returned; on remote failure a non-empty cached catalog is
// served silently.
func (r *Repository) Catalog(ctx context.Context) ([]*entities.Achievement, error) {
	aa, err := r.remote.ListAchievements(ctx)
	if err == nil && aa == nil {
		err = remote.ErrEmptyBody
	}

	if err != nil {
		cached, cerr := r.cache.ListAchievements(ctx)
		if cerr != nil {
			log.WithError(cerr).Warn("failed to read achievements cache")
		}
		if len(cached) > 0 {
			metrics.FetchesTotal.WithLabelValues("achievements", metrics.SourceCache).Inc()
			log.WithError(err).Warn("achievement catalog served from cache")

			return cached, nil
		}

		metrics.FetchFailuresTotal.WithLabelValues("achievements").Inc()

		return nil, fmt.Errorf("failed to fetch achievement catalog: %w", err)
	}

	if err := r.cache.InTx(ctx, func(s storage.Storage) error {
		return s.ReplaceAchievements(ctx, aa)
	}); err != nil {
		log.WithError(err).Warn("failed to cache achievement catalog")
	}

	metrics.FetchesTotal.WithLabelValues("achievements", metrics.SourceRemote).Inc()

	return aa, nil
}

// ForUser fetches the user's achievement progress, replacing the cached rows
// for that user only.
func (r *Repository) ForUser(ctx context.Context, userID string) ([]*entities.UserAchievement, error) {
	aa, err := r.remote.ListUserAchievements(ctx, userID)
	if err == nil && aa == nil {
		err = remote.ErrEmptyBody
	}

	if err != nil {
		cached, cerr := r.cache.ListUserAchievements(ctx, userID)
		if cerr != nil {
			log.WithError(cerr).Warn("failed to read user achievements cache")
		}
		if len(cached) > 0 {
			metrics.FetchesTotal.WithLabelValues("user_achievements", metrics.SourceCache).Inc()
			log.WithError(err).Warn("user achievements served from cache")

			return cached, nil
		}

		metrics.FetchFailuresTotal.WithLabelValues("user_achievements").Inc()

		return nil, fmt.Errorf("failed to fetch user achievements: %w", err)
	}

	if err := r.cache.InTx(ctx, func(s storage.Storage) error {
		return s.ReplaceUserAchievements(ctx, userID, aa)
	}); err != nil {
		log.WithError(err).Warn("failed to cache user achievements")
	}

	metrics.FetchesTotal.WithLabelValues("user_achievements", metrics.SourceRemote).Inc()

	return aa, nil
}

// XP fetches the user's XP singleton, upserting it by key.
func (r *Repository) XP(ctx context.Context, userID string) (*entities.UserXP, error) {
	xp, err := r.remote.GetUserXP(ctx, userID)
	if err == nil && xp == nil {
		err = remote.ErrEmptyBody
	}

	if err != nil {
		cached, cerr := r.cache.GetUserXP(ctx, userID)
		if cerr != nil && cerr != storage.ErrNotFound {
			log.WithError(cerr).Warn("failed to read xp cache")
		}
		if cached != nil {
			metrics.FetchesTotal.WithLabelValues("xp", metrics.SourceCache).Inc()
			log.WithError(err).Warn("xp served from cache")

			return cached, nil
		}

		metrics.FetchFailuresTotal.WithLabelValues("xp").Inc()

		return nil, fmt.Errorf("failed to fetch xp: %w", err)
	}

	if err := r.cache.UpsertUserXP(ctx, xp); err != nil {
		log.WithError(err).Warn("failed to cache xp")
	}

	metrics.FetchesTotal.WithLabelValues("xp", metrics.SourceRemote).Inc()

	return xp, nil
}
