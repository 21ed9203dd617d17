package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pulsefit/atalanta/internal/entities"
)

// flexID absorbs backends that serialize an id either as a plain string or as
// a nested object ({"$oid": "..."} and friends). The ambiguity is resolved
// here, at the deserialization boundary, into a canonical string.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to unmarshal id: %w", err)
	}

	for _, key := range []string{"$oid", "id", "_id", "value"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			*id = flexID(s)
			return nil
		}
	}

	return fmt.Errorf("failed to unmarshal id: no string field in %s", data)
}

type errorDTO struct {
	Error string `json:"error"`
}

type likeDTO struct {
	Username string `json:"username"`
	Picture  string `json:"picture"`
}

type commentDTO struct {
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type authorDTO struct {
	Username string `json:"username"`
	Picture  string `json:"picture"`
}

type postDTO struct {
	ID             flexID       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Pictures       []string     `json:"pictures"`
	Likes          []likeDTO    `json:"likes"`
	LikeNumber     int          `json:"likeNumber"`
	CommentsNumber int          `json:"commentsNumber"`
	Comments       []commentDTO `json:"comments"`
	Author         authorDTO    `json:"author"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type postsPageDTO struct {
	Posts []*postDTO `json:"posts"`
	Total int        `json:"total"`
}

type achievementDTO struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xpReward"`
	IsActive    bool   `json:"isActive"`
}

type userAchievementDTO struct {
	UserID        flexID     `json:"userId"`
	AchievementID flexID     `json:"achievementId"`
	CurrentTier   int        `json:"currentTier"`
	ProgressValue int        `json:"progressValue"`
	UnlockedAt    *time.Time `json:"unlockedAt"`
}

type userXPDTO struct {
	UserID  flexID `json:"userId"`
	XP      int    `json:"xp"`
	TotalXP int    `json:"totalXp"`
	Level   int    `json:"level"`
}

type profileDTO struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"createdAt"`
}

type addCommentRequest struct {
	Content string `json:"content"`
}

type askCoachRequest struct {
	Question string `json:"question"`
}

func (p *postDTO) toEntity() *entities.Post {
	out := entities.Post{
		ID:             string(p.ID),
		Title:          p.Title,
		Description:    p.Description,
		Pictures:       p.Pictures,
		LikeNumber:     p.LikeNumber,
		CommentsNumber: p.CommentsNumber,
		Author:         entities.Author{Username: p.Author.Username, Picture: p.Author.Picture},
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	for _, l := range p.Likes {
		out.Likes = append(out.Likes, entities.Like{Username: l.Username, Picture: l.Picture})
	}
	for _, c := range p.Comments {
		out.Comments = append(out.Comments, entities.Comment{Content: c.Content, Author: c.Author, CreatedAt: c.CreatedAt})
	}

	return &out
}

func (a *achievementDTO) toEntity() *entities.Achievement {
	return &entities.Achievement{
		ID:          string(a.ID),
		Name:        a.Name,
		Description: a.Description,
		Category:    a.Category,
		Type:        a.Type,
		Icon:        a.Icon,
		XPReward:    a.XPReward,
		IsActive:    a.IsActive,
	}
}

func (a *userAchievementDTO) toEntity() *entities.UserAchievement {
	return &entities.UserAchievement{
		UserID:        string(a.UserID),
		AchievementID: string(a.AchievementID),
		CurrentTier:   a.CurrentTier,
		ProgressValue: a.ProgressValue,
		UnlockedAt:    a.UnlockedAt,
	}
}
