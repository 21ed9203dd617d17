// Package sqlite is implementation of storage interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "sqlite")
var errBeginCalledWithinTx = errors.New("can not run InTx within tx")

type db struct {
	ext sqlx.ExtContext
}

type postDTO struct {
	ID             string    `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	AuthorUsername string    `db:"author_username"`
	AuthorPicture  string    `db:"author_picture"`
	LikeNumber     int       `db:"like_number"`
	CommentsNumber int       `db:"comments_number"`
	Pictures       string    `db:"pictures"`
	Likes          string    `db:"likes"`
	Comments       string    `db:"comments"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	LastUpdated    time.Time `db:"last_updated"`
}

type achievementDTO struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Type        string `db:"type"`
	Icon        string `db:"icon"`
	XPReward    int    `db:"xp_reward"`
	IsActive    bool   `db:"is_active"`
}

type userAchievementDTO struct {
	UserID        string     `db:"user_id"`
	AchievementID string     `db:"achievement_id"`
	CurrentTier   int        `db:"current_tier"`
	ProgressValue int        `db:"progress_value"`
	UnlockedAt    *time.Time `db:"unlocked_at"`
}

type userXPDTO struct {
	UserID  string `db:"user_id"`
	XP      int    `db:"xp"`
	TotalXP int    `db:"total_xp"`
	Level   int    `db:"level"`
}

type profileDTO struct {
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	Avatar      string    `db:"avatar"`
	Bio         string    `db:"bio"`
	CreatedAt   time.Time `db:"created_at"`
}

// New creates new instance of db.
func New(d *sql.DB) storage.Storage {
	return db{
		ext: sqlx.NewDb(d, "sqlite3"),
	}
}

func (s db) InTx(ctx context.Context, f func(s storage.Storage) error) error {
	d, ok := s.ext.(*sqlx.DB)
	if !ok {
		return errBeginCalledWithinTx
	}

	tx, err := d.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to create tx: %w", err)
	}

	if err := f(db{ext: tx}); err != nil {
		if err := tx.Rollback(); err != nil {
			log.WithError(err).Error("failed to rollback tx")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	return nil
}

func (s db) UpsertPost(ctx context.Context, p *entities.Post) error {
	dto, err := toPostDTO(p)
	if err != nil {
		return err
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO post(id, title, description, author_username, author_picture, like_number,
				comments_number, pictures, likes, comments, created_at, updated_at, last_updated)
			VALUES(:id, :title, :description, :author_username, :author_picture, :like_number,
				:comments_number, :pictures, :likes, :comments, :created_at, :updated_at, :last_updated)
			ON CONFLICT(id) DO UPDATE SET
				title=excluded.title, description=excluded.description,
				author_username=excluded.author_username, author_picture=excluded.author_picture,
				like_number=excluded.like_number, comments_number=excluded.comments_number,
				pictures=excluded.pictures, likes=excluded.likes, comments=excluded.comments,
				updated_at=excluded.updated_at, last_updated=excluded.last_updated
		`, dto,
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s db) UpsertPosts(ctx context.Context, pp []*entities.Post) error {
	for _, p := range pp {
		if err := s.UpsertPost(ctx, p); err != nil {
			return err
		}
	}

	return nil
}

func (s db) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	var p postDTO

	if err := sqlx.GetContext(ctx, s.ext, &p, `
			SELECT id, title, description, author_username, author_picture, like_number,
				comments_number, pictures, likes, comments, created_at, updated_at, last_updated
			FROM post
			WHERE id = ?
		`, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return fromPostDTO(&p)
}

func (s db) ListPosts(ctx context.Context, limit, offset int) ([]*entities.Post, error) {
	var pp []*postDTO

	if err := sqlx.SelectContext(ctx, s.ext, &pp, `
			SELECT id, title, description, author_username, author_picture, like_number,
				comments_number, pictures, likes, comments, created_at, updated_at, last_updated
			FROM post
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`, limit, offset,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Post, len(pp))
	for i, v := range pp {
		p, err := fromPostDTO(v)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

func (s db) DeletePost(ctx context.Context, id string) error {
	res, err := s.ext.ExecContext(ctx, `DELETE FROM post WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	if c, _ := res.RowsAffected(); c == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s db) ReplaceAchievements(ctx context.Context, aa []*entities.Achievement) error {
	if _, err := s.ext.ExecContext(ctx, `DELETE FROM achievement`); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	for _, a := range aa {
		if _, err := sqlx.NamedExecContext(ctx, s.ext,
			`
				INSERT INTO achievement(id, name, description, category, type, icon, xp_reward, is_active)
				VALUES(:id, :name, :description, :category, :type, :icon, :xp_reward, :is_active)
			`, achievementDTO{
				ID:          a.ID,
				Name:        a.Name,
				Description: a.Description,
				Category:    a.Category,
				Type:        a.Type,
				Icon:        a.Icon,
				XPReward:    a.XPReward,
				IsActive:    a.IsActive,
			},
		); err != nil {
			return fmt.Errorf("failed to exec: %w", err)
		}
	}

	return nil
}

func (s db) ListAchievements(ctx context.Context) ([]*entities.Achievement, error) {
	var aa []*achievementDTO

	if err := sqlx.SelectContext(ctx, s.ext, &aa, `
			SELECT id, name, description, category, type, icon, xp_reward, is_active
			FROM achievement
			ORDER BY id
		`,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Achievement, len(aa))
	for i, v := range aa {
		out[i] = &entities.Achievement{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			Category:    v.Category,
			Type:        v.Type,
			Icon:        v.Icon,
			XPReward:    v.XPReward,
			IsActive:    v.IsActive,
		}
	}

	return out, nil
}

func (s db) ReplaceUserAchievements(ctx context.Context, userID string, aa []*entities.UserAchievement) error {
	if _, err := s.ext.ExecContext(ctx, `DELETE FROM user_achievement WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	for _, a := range aa {
		if _, err := sqlx.NamedExecContext(ctx, s.ext,
			`
				INSERT INTO user_achievement(user_id, achievement_id, current_tier, progress_value, unlocked_at)
				VALUES(:user_id, :achievement_id, :current_tier, :progress_value, :unlocked_at)
			`, userAchievementDTO{
				UserID:        userID,
				AchievementID: a.AchievementID,
				CurrentTier:   a.CurrentTier,
				ProgressValue: a.ProgressValue,
				UnlockedAt:    a.UnlockedAt,
			},
		); err != nil {
			return fmt.Errorf("failed to exec: %w", err)
		}
	}

	return nil
}

func (s db) ListUserAchievements(ctx context.Context, userID string) ([]*entities.UserAchievement, error) {
	var aa []*userAchievementDTO

	if err := sqlx.SelectContext(ctx, s.ext, &aa, `
			SELECT user_id, achievement_id, current_tier, progress_value, unlocked_at
			FROM user_achievement
			WHERE user_id = ?
			ORDER BY achievement_id
		`, userID,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.UserAchievement, len(aa))
	for i, v := range aa {
		out[i] = &entities.UserAchievement{
			UserID:        v.UserID,
			AchievementID: v.AchievementID,
			CurrentTier:   v.CurrentTier,
			ProgressValue: v.ProgressValue,
			UnlockedAt:    v.UnlockedAt,
		}
	}

	return out, nil
}

func (s db) UpsertUserXP(ctx context.Context, xp *entities.UserXP) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO user_xp(user_id, xp, total_xp, level)
			VALUES(:user_id, :xp, :total_xp, :level)
			ON CONFLICT(user_id) DO UPDATE SET
				xp=excluded.xp, total_xp=excluded.total_xp, level=excluded.level
		`, userXPDTO{
			UserID:  xp.UserID,
			XP:      xp.XP,
			TotalXP: xp.TotalXP,
			Level:   xp.Level,
		},
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s db) GetUserXP(ctx context.Context, userID string) (*entities.UserXP, error) {
	var xp userXPDTO

	if err := sqlx.GetContext(ctx, s.ext, &xp,
		`SELECT user_id, xp, total_xp, level FROM user_xp WHERE user_id = ?`, userID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return &entities.UserXP{
		UserID:  xp.UserID,
		XP:      xp.XP,
		TotalXP: xp.TotalXP,
		Level:   xp.Level,
	}, nil
}

func (s db) UpsertProfile(ctx context.Context, p *entities.Profile) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO profile(username, display_name, avatar, bio, created_at)
			VALUES(:username, :display_name, :avatar, :bio, :created_at)
			ON CONFLICT(username) DO UPDATE SET
				display_name=excluded.display_name, avatar=excluded.avatar, bio=excluded.bio
		`, profileDTO{
			Username:    p.Username,
			DisplayName: p.DisplayName,
			Avatar:      p.Avatar,
			Bio:         p.Bio,
			CreatedAt:   p.CreatedAt.UTC(),
		},
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s db) GetProfile(ctx context.Context, username string) (*entities.Profile, error) {
	var p profileDTO

	if err := sqlx.GetContext(ctx, s.ext, &p,
		`SELECT username, display_name, avatar, bio, created_at FROM profile WHERE username = ?`, username,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return &entities.Profile{
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Avatar:      p.Avatar,
		Bio:         p.Bio,
		CreatedAt:   p.CreatedAt,
	}, nil
}

// Clear wipes every cached table. Tied to logout.
func (s db) Clear(ctx context.Context) error {
	for _, q := range []string{
		`DELETE FROM post`,
		`DELETE FROM achievement`,
		`DELETE FROM user_achievement`,
		`DELETE FROM user_xp`,
		`DELETE FROM profile`,
	} {
		if _, err := s.ext.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to exec: %w", err)
		}
	}

	return nil
}

func toPostDTO(p *entities.Post) (*postDTO, error) {
	pictures, err := json.Marshal(p.Pictures)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pictures: %w", err)
	}

	likes, err := json.Marshal(p.Likes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal likes: %w", err)
	}

	comments, err := json.Marshal(p.Comments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comments: %w", err)
	}

	return &postDTO{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		AuthorUsername: p.Author.Username,
		AuthorPicture:  p.Author.Picture,
		LikeNumber:     p.LikeNumber,
		CommentsNumber: p.CommentsNumber,
		Pictures:       string(pictures),
		Likes:          string(likes),
		Comments:       string(comments),
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
		LastUpdated:    time.Now().UTC(),
	}, nil
}

func fromPostDTO(p *postDTO) (*entities.Post, error) {
	out := entities.Post{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Author:         entities.Author{Username: p.AuthorUsername, Picture: p.AuthorPicture},
		LikeNumber:     p.LikeNumber,
		CommentsNumber: p.CommentsNumber,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	if err := json.Unmarshal([]byte(p.Pictures), &out.Pictures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pictures: %w", err)
	}
	if err := json.Unmarshal([]byte(p.Likes), &out.Likes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal likes: %w", err)
	}
	if err := json.Unmarshal([]byte(p.Comments), &out.Comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}

	return &out, nil
}
