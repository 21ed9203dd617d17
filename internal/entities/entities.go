// Package entities contains main entities of the sync layer.
package entities

import (
	"time"
)

// Like is a single like on a post. Likes are set-like by username; the
// mutation logic, not the storage layer, enforces uniqueness.
type Like struct {
	Username string
	Picture  string
}

// Comment is append-only from the client's perspective, ordered by insertion.
type Comment struct {
	Content   string
	Author    string
	CreatedAt time.Time
}

// Author ...
type Author struct {
	Username string
	Picture  string
}

// Post is the richest cached entity.
//
// IsLikedByMe is transient: recomputed against the session username at
// reconciliation time, or retained from an optimistic update pending server
// confirmation. It is never persisted verbatim.
type Post struct {
	ID             string
	Title          string
	Description    string
	Pictures       []string
	Likes          []Like
	LikeNumber     int
	CommentsNumber int
	Comments       []Comment
	Author         Author
	CreatedAt      time.Time
	UpdatedAt      time.Time

	IsLikedByMe bool
}

// LikedBy reports whether username appears in the post's like list.
func (p *Post) LikedBy(username string) bool {
	for _, l := range p.Likes {
		if l.Username == username {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the post. Mutation snapshots rely on copies
// being fully detached from the original slices.
func (p *Post) Clone() *Post {
	out := *p

	out.Pictures = append([]string(nil), p.Pictures...)
	out.Likes = append([]Like(nil), p.Likes...)
	out.Comments = append([]Comment(nil), p.Comments...)

	return &out
}

// Achievement is a global catalog entity, not user-scoped.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Category    string
	Type        string
	Icon        string
	XPReward    int
	IsActive    bool
}

// UserAchievement is composite-keyed by (UserID, AchievementID).
type UserAchievement struct {
	UserID        string
	AchievementID string
	CurrentTier   int
	ProgressValue int
	UnlockedAt    *time.Time
}

// UserXP is a singleton per user.
type UserXP struct {
	UserID  string
	XP      int
	TotalXP int
	Level   int
}

// Profile is the cached profile entity.
type Profile struct {
	Username    string
	DisplayName string
	Avatar      string
	Bio         string
	CreatedAt   time.Time
}
