// Package remote contains the backend client interface consumed by the
// repositories. Implementations own URLs, headers, auth and TLS; callers only
// see typed calls and errors.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pulsefit/atalanta/internal/entities"
)

//go:generate mockgen -destination=./mock/remote.go -package=mock -source=remote.go

// ErrEmptyBody is returned when the backend answers with a success status but
// no payload. Repositories treat it like any other remote failure.
var ErrEmptyBody = errors.New("empty response body")

// Error is a server-rejected request.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.StatusCode, e.Message)
}

// PostsPage is one page of the feed.
//
// Total is the server-reported total count. It is informational only:
// pagination terminates on item count, never on Total.
type PostsPage struct {
	Posts []*entities.Post
	Total int
}

// Client issues typed calls against the backend.
type Client interface {
	ListPosts(ctx context.Context, page, limit int) (*PostsPage, error)
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	LikePost(ctx context.Context, id string) (*entities.Post, error)
	UnlikePost(ctx context.Context, id string) (*entities.Post, error)
	AddComment(ctx context.Context, id, content string) (*entities.Post, error)
	DeletePost(ctx context.Context, id string) error

	ListAchievements(ctx context.Context) ([]*entities.Achievement, error)
	ListUserAchievements(ctx context.Context, userID string) ([]*entities.UserAchievement, error)
	GetUserXP(ctx context.Context, userID string) (*entities.UserXP, error)

	GetProfile(ctx context.Context, username string) (*entities.Profile, error)

	// CoachStream opens the chat stream for a question. The caller owns the
	// returned reader and must close it; cancelling ctx closes the underlying
	// connection.
	CoachStream(ctx context.Context, conversationID, question string) (io.ReadCloser, error)
}
