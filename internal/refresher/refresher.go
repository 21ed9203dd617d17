// Package refresher keeps the local cache warm: it periodically re-fetches
// the signed-in user's data and reacts to refresh requests broadcast on the
// invalidation bus.
package refresher

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/achievements"
	"github.com/pulsefit/atalanta/internal/bus"
	"github.com/pulsefit/atalanta/internal/feed"
	"github.com/pulsefit/atalanta/internal/profile"
	"github.com/pulsefit/atalanta/internal/session"
)

var log = logrus.WithField("package", "refresher")

// Refresher ...
type Refresher struct {
	feed         *feed.Feed
	achievements *achievements.Repository
	profile      *profile.Repository
	bus          *bus.Bus
	session      *session.Session
	interval     time.Duration
}

// New creates new instance of Refresher.
func New(f *feed.Feed, a *achievements.Repository, p *profile.Repository,
	b *bus.Bus, s *session.Session, interval time.Duration) *Refresher {
	return &Refresher{
		feed:         f,
		achievements: a,
		profile:      p,
		bus:          b,
		session:      s,
		interval:     interval,
	}
}

// Run blocks until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	ch, unsubscribe := r.bus.SubscribeRefresh()
	defer unsubscribe()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.syncAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.syncAll(ctx)
		case v := <-ch:
			if !v {
				continue
			}

			if err := r.feed.Refresh(ctx); err != nil {
				log.WithError(err).Error("failed to refresh feed")
			}

			// reset the level-triggered flag exactly once per request
			r.bus.RequestRefresh(false)
		}
	}
}

func (r *Refresher) syncAll(ctx context.Context) {
	if err := r.feed.Refresh(ctx); err != nil {
		log.WithError(err).Error("failed to refresh feed")
	}

	if _, err := r.achievements.Catalog(ctx); err != nil {
		log.WithError(err).Error("failed to refresh achievement catalog")
	}

	if _, err := r.achievements.ForUser(ctx, r.session.Username); err != nil {
		log.WithError(err).Error("failed to refresh user achievements")
	}

	if _, err := r.achievements.XP(ctx, r.session.Username); err != nil {
		log.WithError(err).Error("failed to refresh xp")
	}

	if _, err := r.profile.Get(ctx, r.session.Username); err != nil {
		log.WithError(err).Error("failed to refresh profile")
	}
}
