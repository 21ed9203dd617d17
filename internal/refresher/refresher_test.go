package refresher

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/atalanta/internal/achievements"
	"github.com/pulsefit/atalanta/internal/bus"
	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/feed"
	"github.com/pulsefit/atalanta/internal/profile"
	"github.com/pulsefit/atalanta/internal/remote"
	remotemock "github.com/pulsefit/atalanta/internal/remote/mock"
	storagemock "github.com/pulsefit/atalanta/internal/storage/mock"
	"github.com/pulsefit/atalanta/internal/session"
)

func TestRefresher_Run(t *testing.T) {
	ctrl := gomock.NewController(t)

	r := remotemock.NewMockClient(ctrl)
	c := storagemock.NewMockStorage(ctrl)
	b := bus.New()
	sess := session.New("alice", "token")

	var feedFetches int32

	r.EXPECT().ListPosts(gomock.Any(), 1, feed.DefaultLimit).DoAndReturn(
		func(_ context.Context, _, _ int) (*remote.PostsPage, error) {
			atomic.AddInt32(&feedFetches, 1)
			return &remote.PostsPage{Posts: []*entities.Post{{ID: "p1"}}, Total: 1}, nil
		}).AnyTimes()
	r.EXPECT().ListAchievements(gomock.Any()).
		Return([]*entities.Achievement{{ID: "a1"}}, nil).AnyTimes()
	r.EXPECT().ListUserAchievements(gomock.Any(), "alice").
		Return([]*entities.UserAchievement{}, nil).AnyTimes()
	r.EXPECT().GetUserXP(gomock.Any(), "alice").
		Return(&entities.UserXP{UserID: "alice", Level: 1}, nil).AnyTimes()
	r.EXPECT().GetProfile(gomock.Any(), "alice").
		Return(&entities.Profile{Username: "alice"}, nil).AnyTimes()

	c.EXPECT().UpsertPosts(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().InTx(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().UpsertUserXP(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().UpsertProfile(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ref := New(
		feed.New(r, c, b, sess, feed.DefaultLimit),
		achievements.New(r, c),
		profile.New(r, c),
		b, sess, time.Hour,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ref.Run(ctx) }()

	waitFor(t, func() bool { return atomic.LoadInt32(&feedFetches) >= 1 })

	// a refresh request triggers another feed fetch and resets the flag
	b.RequestRefresh(true)

	waitFor(t, func() bool { return atomic.LoadInt32(&feedFetches) >= 2 })
	waitFor(t, func() bool { return !b.RefreshRequested() })

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	require.Fail(t, "condition never met")
}
