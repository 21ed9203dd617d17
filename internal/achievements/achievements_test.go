package achievements

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/remote"
	remotemock "github.com/pulsefit/atalanta/internal/remote/mock"
	"github.com/pulsefit/atalanta/internal/storage"
	storagemock "github.com/pulsefit/atalanta/internal/storage/mock"
)

func newTestRepo(t *testing.T) (*Repository, *remotemock.MockClient, *storagemock.MockStorage) {
	ctrl := gomock.NewController(t)

	r := remotemock.NewMockClient(ctrl)
	s := storagemock.NewMockStorage(ctrl)

	return New(r, s), r, s
}

func catalog() []*entities.Achievement {
	return []*entities.Achievement{
		{ID: "a1", Name: "First Run", XPReward: 50, IsActive: true},
		{ID: "a2", Name: "Marathon", XPReward: 500, IsActive: true},
	}
}

func TestRepository_Catalog(t *testing.T) {
	repo, r, s := newTestRepo(t)

	r.EXPECT().ListAchievements(gomock.Any()).Return(catalog(), nil)
	s.EXPECT().InTx(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f func(storage.Storage) error) error {
		// the clear-then-upsert runs inside the transaction
		s.EXPECT().ReplaceAchievements(gomock.Any(), catalog()).Return(nil)
		return f(s)
	})

	got, err := repo.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog(), got)
}

func TestRepository_Catalog_CacheFallback(t *testing.T) {
	tt := []struct {
		name   string
		remote error
	}{
		{
			name:   "transport failure",
			remote: context.DeadlineExceeded,
		},
		{
			name:   "server rejected",
			remote: &remote.Error{StatusCode: 500, Message: "boom"},
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			repo, r, s := newTestRepo(t)

			r.EXPECT().ListAchievements(gomock.Any()).Return(nil, tc.remote)
			s.EXPECT().ListAchievements(gomock.Any()).Return(catalog(), nil)

			got, err := repo.Catalog(context.Background())
			require.NoError(t, err)
			assert.Equal(t, catalog(), got)
		})
	}
}

func TestRepository_Catalog_EmptyBodyFallsBack(t *testing.T) {
	repo, r, s := newTestRepo(t)

	// success status with no payload is treated like a failure
	r.EXPECT().ListAchievements(gomock.Any()).Return(nil, nil)
	s.EXPECT().ListAchievements(gomock.Any()).Return(catalog(), nil)

	got, err := repo.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog(), got)
}

func TestRepository_Catalog_TotalUnavailability(t *testing.T) {
	repo, r, s := newTestRepo(t)

	r.EXPECT().ListAchievements(gomock.Any()).Return(nil, context.DeadlineExceeded)
	s.EXPECT().ListAchievements(gomock.Any()).Return(nil, nil)

	_, err := repo.Catalog(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRepository_ForUser(t *testing.T) {
	repo, r, s := newTestRepo(t)

	aa := []*entities.UserAchievement{
		{UserID: "u1", AchievementID: "a1", CurrentTier: 2, ProgressValue: 40},
	}

	r.EXPECT().ListUserAchievements(gomock.Any(), "u1").Return(aa, nil)
	s.EXPECT().InTx(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f func(storage.Storage) error) error {
		s.EXPECT().ReplaceUserAchievements(gomock.Any(), "u1", aa).Return(nil)
		return f(s)
	})

	got, err := repo.ForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, aa, got)
}

func TestRepository_ForUser_CacheFallback(t *testing.T) {
	repo, r, s := newTestRepo(t)

	aa := []*entities.UserAchievement{{UserID: "u1", AchievementID: "a1"}}

	r.EXPECT().ListUserAchievements(gomock.Any(), "u1").Return(nil, context.DeadlineExceeded)
	s.EXPECT().ListUserAchievements(gomock.Any(), "u1").Return(aa, nil)

	got, err := repo.ForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, aa, got)
}

func TestRepository_XP(t *testing.T) {
	repo, r, s := newTestRepo(t)

	xp := &entities.UserXP{UserID: "u1", XP: 120, TotalXP: 1120, Level: 4}

	r.EXPECT().GetUserXP(gomock.Any(), "u1").Return(xp, nil)
	s.EXPECT().UpsertUserXP(gomock.Any(), xp).Return(nil)

	got, err := repo.XP(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, xp, got)
}

func TestRepository_XP_CacheFallback(t *testing.T) {
	repo, r, s := newTestRepo(t)

	xp := &entities.UserXP{UserID: "u1", XP: 120, TotalXP: 1120, Level: 4}

	r.EXPECT().GetUserXP(gomock.Any(), "u1").Return(nil, context.DeadlineExceeded)
	s.EXPECT().GetUserXP(gomock.Any(), "u1").Return(xp, nil)

	got, err := repo.XP(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, xp, got)
}

func TestRepository_XP_TotalUnavailability(t *testing.T) {
	repo, r, s := newTestRepo(t)

	r.EXPECT().GetUserXP(gomock.Any(), "u1").Return(nil, context.DeadlineExceeded)
	s.EXPECT().GetUserXP(gomock.Any(), "u1").Return(nil, storage.ErrNotFound)

	_, err := repo.XP(context.Background(), "u1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
