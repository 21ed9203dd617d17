package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	m "github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/storage"
)

var (
	testDB *sql.DB
	ctx    = context.Background()
	s      storage.Storage
)

func TestMain(t *testing.M) {
	setup()

	s = New(testDB)

	os.Exit(t.Run())
}

func setup() {
	var err error

	testDB, err = sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		logrus.WithError(err).Fatal("failed to open connection")
	}
	testDB.SetMaxOpenConns(1)

	if err := testDB.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping sqlite")
	}

	migrate()
}

func migrate() {
	_, currFile, _, ok := runtime.Caller(0)
	if !ok {
		logrus.Fatal("failed to get current file location")
	}

	migrations := filepath.Join(currFile, "../../../../scripts/migrations/sqlite/")

	driver, err := migratesqlite.WithInstance(testDB, &migratesqlite.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migration driver")
	}

	migrator, err := m.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrations),
		"sqlite3", driver,
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	if err := migrator.Up(); err != nil {
		logrus.WithError(err).Fatal("failed to migrate")
	}
}

func cleanup(t *testing.T) {
	for _, q := range []string{
		`DELETE FROM post`,
		`DELETE FROM achievement`,
		`DELETE FROM user_achievement`,
		`DELETE FROM user_xp`,
		`DELETE FROM profile`,
	} {
		_, err := testDB.ExecContext(ctx, q)
		require.NoError(t, err)
	}
}

func newPost(id string, createdAt time.Time) *entities.Post {
	return &entities.Post{
		ID:          id,
		Title:       "morning run",
		Description: "easy 5k around the park",
		Author:      entities.Author{Username: "alice", Picture: "avatar.png"},
		LikeNumber:  2,
		Likes: []entities.Like{
			{Username: "bob"},
			{Username: "carol"},
		},
		CommentsNumber: 1,
		Comments: []entities.Comment{
			{Author: "bob", Content: "nice pace", CreatedAt: createdAt},
		},
		Pictures:  []string{"run1.jpg", "run2.jpg"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestSqlite_UpsertPost(t *testing.T) {
	defer cleanup(t)

	expected := newPost("p1", time.Now().UTC())
	require.NoError(t, s.UpsertPost(ctx, expected))

	p, err := s.GetPost(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, expected.ID, p.ID)
	assert.Equal(t, expected.Title, p.Title)
	assert.Equal(t, expected.Author, p.Author)
	assert.Equal(t, expected.LikeNumber, p.LikeNumber)
	assert.Equal(t, expected.Likes, p.Likes)
	assert.Equal(t, expected.Pictures, p.Pictures)
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "nice pace", p.Comments[0].Content)
	assert.Equal(t, expected.CreatedAt.Unix(), p.CreatedAt.Unix())

	// second upsert overwrites mutable fields
	expected.LikeNumber = 5
	expected.Likes = nil
	require.NoError(t, s.UpsertPost(ctx, expected))

	p, err = s.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.LikeNumber)
	assert.Empty(t, p.Likes)
}

func TestSqlite_GetPost_NotFound(t *testing.T) {
	defer cleanup(t)

	_, err := s.GetPost(ctx, "missing")
	require.Equal(t, storage.ErrNotFound, err)
}

func TestSqlite_ListPosts(t *testing.T) {
	defer cleanup(t)

	require.NoError(t, s.UpsertPosts(ctx, []*entities.Post{
		newPost("p1", time.Unix(1, 0).UTC()),
		newPost("p2", time.Unix(3, 0).UTC()),
		newPost("p3", time.Unix(2, 0).UTC()),
	}))

	pp, err := s.ListPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pp, 3)

	// newest first
	assert.Equal(t, "p2", pp[0].ID)
	assert.Equal(t, "p3", pp[1].ID)
	assert.Equal(t, "p1", pp[2].ID)

	pp, err = s.ListPosts(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, pp, 2)
	assert.Equal(t, "p3", pp[0].ID)
	assert.Equal(t, "p1", pp[1].ID)
}

func TestSqlite_DeletePost(t *testing.T) {
	defer cleanup(t)

	require.NoError(t, s.UpsertPost(ctx, newPost("p1", time.Now().UTC())))
	require.NoError(t, s.DeletePost(ctx, "p1"))

	_, err := s.GetPost(ctx, "p1")
	require.Equal(t, storage.ErrNotFound, err)

	require.Equal(t, storage.ErrNotFound, s.DeletePost(ctx, "p1"))
}

func TestSqlite_ReplaceAchievements(t *testing.T) {
	defer cleanup(t)

	require.NoError(t, s.ReplaceAchievements(ctx, []*entities.Achievement{
		{ID: "a1", Name: "First Run", Category: "running", XPReward: 50, IsActive: true},
		{ID: "a2", Name: "Early Bird", Category: "consistency", XPReward: 100, IsActive: true},
	}))

	aa, err := s.ListAchievements(ctx)
	require.NoError(t, err)
	require.Len(t, aa, 2)
	assert.Equal(t, "First Run", aa[0].Name)

	// the replacement drops rows missing from the new catalog
	require.NoError(t, s.ReplaceAchievements(ctx, []*entities.Achievement{
		{ID: "a2", Name: "Early Bird", Category: "consistency", XPReward: 150, IsActive: true},
	}))

	aa, err = s.ListAchievements(ctx)
	require.NoError(t, err)
	require.Len(t, aa, 1)
	assert.Equal(t, "a2", aa[0].ID)
	assert.Equal(t, 150, aa[0].XPReward)
}

func TestSqlite_ReplaceUserAchievements(t *testing.T) {
	defer cleanup(t)

	unlocked := time.Unix(100, 0).UTC()

	require.NoError(t, s.ReplaceUserAchievements(ctx, "u1", []*entities.UserAchievement{
		{UserID: "u1", AchievementID: "a1", CurrentTier: 1, ProgressValue: 3, UnlockedAt: &unlocked},
		{UserID: "u1", AchievementID: "a2", ProgressValue: 1},
	}))
	require.NoError(t, s.ReplaceUserAchievements(ctx, "u2", []*entities.UserAchievement{
		{UserID: "u2", AchievementID: "a1", ProgressValue: 9},
	}))

	aa, err := s.ListUserAchievements(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, aa, 2)
	assert.Equal(t, "a1", aa[0].AchievementID)
	require.NotNil(t, aa[0].UnlockedAt)
	assert.Equal(t, unlocked.Unix(), aa[0].UnlockedAt.Unix())
	assert.Nil(t, aa[1].UnlockedAt)

	// replacing one user's rows leaves the other user untouched
	require.NoError(t, s.ReplaceUserAchievements(ctx, "u1", nil))

	aa, err = s.ListUserAchievements(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, aa)

	aa, err = s.ListUserAchievements(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, aa, 1)
}

func TestSqlite_UpsertUserXP(t *testing.T) {
	defer cleanup(t)

	require.NoError(t, s.UpsertUserXP(ctx, &entities.UserXP{UserID: "u1", XP: 10, TotalXP: 110, Level: 2}))
	require.NoError(t, s.UpsertUserXP(ctx, &entities.UserXP{UserID: "u1", XP: 20, TotalXP: 120, Level: 2}))

	xp, err := s.GetUserXP(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &entities.UserXP{UserID: "u1", XP: 20, TotalXP: 120, Level: 2}, xp)

	_, err = s.GetUserXP(ctx, "u2")
	require.Equal(t, storage.ErrNotFound, err)
}

func TestSqlite_UpsertProfile(t *testing.T) {
	defer cleanup(t)

	createdAt := time.Unix(1000, 0).UTC()

	require.NoError(t, s.UpsertProfile(ctx, &entities.Profile{
		Username:    "alice",
		DisplayName: "Alice",
		Avatar:      "avatar.png",
		Bio:         "trail runner",
		CreatedAt:   createdAt,
	}))
	require.NoError(t, s.UpsertProfile(ctx, &entities.Profile{
		Username:    "alice",
		DisplayName: "Alice R.",
		Avatar:      "avatar2.png",
		Bio:         "trail runner",
		CreatedAt:   createdAt,
	}))

	p, err := s.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice R.", p.DisplayName)
	assert.Equal(t, "avatar2.png", p.Avatar)
	assert.Equal(t, createdAt.Unix(), p.CreatedAt.Unix())

	_, err = s.GetProfile(ctx, "bob")
	require.Equal(t, storage.ErrNotFound, err)
}

func TestSqlite_InTx(t *testing.T) {
	defer cleanup(t)

	require.NoError(t, s.InTx(ctx, func(tx storage.Storage) error {
		return tx.UpsertPost(ctx, newPost("p1", time.Now().UTC()))
	}))

	_, err := s.GetPost(ctx, "p1")
	require.NoError(t, err)

	// a failing callback rolls the whole tx back
	boom := errors.New("boom")
	err = s.InTx(ctx, func(tx storage.Storage) error {
		if err := tx.UpsertPost(ctx, newPost("p2", time.Now().UTC())); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetPost(ctx, "p2")
	require.Equal(t, storage.ErrNotFound, err)
}

func TestSqlite_InTx_Nested(t *testing.T) {
	defer cleanup(t)

	require.Error(t, s.InTx(ctx, func(tx storage.Storage) error {
		return tx.InTx(ctx, func(storage.Storage) error { return nil })
	}))
}

func TestSqlite_Clear(t *testing.T) {
	defer cleanup(t)

	require.NoError(t, s.UpsertPost(ctx, newPost("p1", time.Now().UTC())))
	require.NoError(t, s.ReplaceAchievements(ctx, []*entities.Achievement{{ID: "a1", Name: "First Run"}}))
	require.NoError(t, s.UpsertUserXP(ctx, &entities.UserXP{UserID: "u1", Level: 1}))

	require.NoError(t, s.Clear(ctx))

	pp, err := s.ListPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Empty(t, pp)

	aa, err := s.ListAchievements(ctx)
	require.NoError(t, err)
	require.Empty(t, aa)

	_, err = s.GetUserXP(ctx, "u1")
	require.Equal(t, storage.ErrNotFound, err)
}
