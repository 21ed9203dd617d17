// Package profile contains the sync repository for cached user profiles.
package profile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/metrics"
	"github.com/pulsefit/atalanta/internal/remote"
	"github.com/pulsefit/atalanta/internal/storage"
)

var log = logrus.WithField("package", "profile")

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

// Get fetches a profile, upserting the cached copy on success and serving it
// on remote failure. Callers cannot tell fresh from cached; only total
// unavailability is an error.
func (r *Repository) Get(ctx context.Context, username string) (*entities.Profile, error) {
	p, err := r.remote.GetProfile(ctx, username)
	if err == nil && p == nil {
		err = remote.ErrEmptyBody
	}

	if err != nil {
		cached, cerr := r.cache.GetProfile(ctx, username)
		if cerr != nil && cerr != storage.ErrNotFound {
			log.WithError(cerr).Warn("failed to read profile cache")
		}
		if cached != nil {
			metrics.FetchesTotal.WithLabelValues("profile", metrics.SourceCache).Inc()
			log.WithError(err).Warn("profile served from cache")

			return cached, nil
		}

		metrics.FetchFailuresTotal.WithLabelValues("profile").Inc()

		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if err := r.cache.UpsertProfile(ctx, p); err != nil {
		log.WithError(err).Warn("failed to cache profile")
	}

	metrics.FetchesTotal.WithLabelValues("profile", metrics.SourceRemote).Inc()

	return p, nil
}
