// Package httpclient is implementation of remote client interface.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/remote"
	"github.com/pulsefit/atalanta/internal/session"
)

var log = logrus.WithField("layer", "remote").WithField("package", "httpclient")

const defaultTimeout = 30 * time.Second

// retries per idempotent GET, on top of the initial attempt.
const maxRetries = 2

type client struct {
	baseURL string
	http    *http.Client
}

// bearerTransport adds the session token to every outgoing request.
type bearerTransport struct {
	base  http.RoundTripper
	token string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(cloned)
}

// New creates new instance of client.
func New(baseURL string, s *session.Session) remote.Client {
	return &client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &bearerTransport{base: http.DefaultTransport, token: s.Token},
		},
	}
}

func (c *client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	op := func() error {
		return c.do(ctx, http.MethodGet, path, query, nil, out)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)

	return backoff.Retry(func() error {
		err := op()

		// client errors will not heal by retrying
		if rerr, ok := err.(*remote.Error); ok && rerr.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}

		return err
	}, bo)
}

func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close() // nolint

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var e errorDTO
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}

		return &remote.Error{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	// success status with no payload is the empty-result paradox, callers
	// fall back to cache on it
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return remote.ErrEmptyBody
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal body: %w", err)
	}

	return nil
}

func (c *client) ListPosts(ctx context.Context, page, limit int) (*remote.PostsPage, error) {
	var dto postsPageDTO

	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))

	if err := c.get(ctx, "/v1/posts", q, &dto); err != nil {
		return nil, err
	}

	out := remote.PostsPage{Total: dto.Total, Posts: make([]*entities.Post, len(dto.Posts))}
	for i, p := range dto.Posts {
		out.Posts[i] = p.toEntity()
	}

	return &out, nil
}

func (c *client) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	var dto postDTO

	if err := c.get(ctx, fmt.Sprintf("/v1/posts/%s", url.PathEscape(id)), nil, &dto); err != nil {
		return nil, err
	}

	return dto.toEntity(), nil
}

func (c *client) LikePost(ctx context.Context, id string) (*entities.Post, error) {
	var dto postDTO

	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/posts/%s/like", url.PathEscape(id)), nil, nil, &dto); err != nil {
		return nil, err
	}

	return dto.toEntity(), nil
}

func (c *client) UnlikePost(ctx context.Context, id string) (*entities.Post, error) {
	var dto postDTO

	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/posts/%s/like", url.PathEscape(id)), nil, nil, &dto); err != nil {
		return nil, err
	}

	return dto.toEntity(), nil
}

func (c *client) AddComment(ctx context.Context, id, content string) (*entities.Post, error) {
	var dto postDTO

	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/posts/%s/comments", url.PathEscape(id)),
		nil, addCommentRequest{Content: content}, &dto); err != nil {
		return nil, err
	}

	return dto.toEntity(), nil
}

func (c *client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/posts/%s", url.PathEscape(id)), nil, nil, nil)
}

func (c *client) ListAchievements(ctx context.Context) ([]*entities.Achievement, error) {
	var dto []*achievementDTO

	if err := c.get(ctx, "/v1/achievements", nil, &dto); err != nil {
		return nil, err
	}

	out := make([]*entities.Achievement, len(dto))
	for i, a := range dto {
		out[i] = a.toEntity()
	}

	return out, nil
}

func (c *client) ListUserAchievements(ctx context.Context, userID string) ([]*entities.UserAchievement, error) {
	var dto []*userAchievementDTO

	if err := c.get(ctx, fmt.Sprintf("/v1/users/%s/achievements", url.PathEscape(userID)), nil, &dto); err != nil {
		return nil, err
	}

	out := make([]*entities.UserAchievement, len(dto))
	for i, a := range dto {
		out[i] = a.toEntity()
	}

	return out, nil
}

func (c *client) GetUserXP(ctx context.Context, userID string) (*entities.UserXP, error) {
	var dto userXPDTO

	if err := c.get(ctx, fmt.Sprintf("/v1/users/%s/xp", url.PathEscape(userID)), nil, &dto); err != nil {
		return nil, err
	}

	return &entities.UserXP{
		UserID:  string(dto.UserID),
		XP:      dto.XP,
		TotalXP: dto.TotalXP,
		Level:   dto.Level,
	}, nil
}

func (c *client) GetProfile(ctx context.Context, username string) (*entities.Profile, error) {
	var dto profileDTO

	if err := c.get(ctx, fmt.Sprintf("/v1/profiles/%s", url.PathEscape(username)), nil, &dto); err != nil {
		return nil, err
	}

	return &entities.Profile{
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Avatar:      dto.Avatar,
		Bio:         dto.Bio,
		CreatedAt:   dto.CreatedAt,
	}, nil
}

// CoachStream opens the chat stream. No retry and no client-side timeout: the
// stream lives until the server closes it or ctx is cancelled.
func (c *client) CoachStream(ctx context.Context, conversationID, question string) (io.ReadCloser, error) {
	b, err := json.Marshal(askCoachRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}

	u := fmt.Sprintf("%s/v1/coach/conversations/%s/messages", c.baseURL, url.PathEscape(conversationID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorDTO
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		resp.Body.Close() // nolint

		return nil, &remote.Error{StatusCode: resp.StatusCode, Message: e.Error}
	}

	log.WithField("conversation", conversationID).Debug("coach stream opened")

	return resp.Body, nil
}
