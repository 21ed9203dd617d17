// Package feed contains the paginated feed repository: an append-only,
// de-duplicated in-memory post list backed by server-side pagination, with
// optimistic like/comment mutations reconciled against the server.
package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/bus"
	"github.com/pulsefit/atalanta/internal/entities"
	"github.com/pulsefit/atalanta/internal/metrics"
	"github.com/pulsefit/atalanta/internal/remote"
	"github.com/pulsefit/atalanta/internal/session"
	"github.com/pulsefit/atalanta/internal/storage"
)

var log = logrus.WithField("package", "feed")

// ErrPostNotFound is returned when a mutation targets a post the feed does
// not hold. No network call is made.
var ErrPostNotFound = errors.New("post not found in feed")

// ErrEmptyComment is returned for blank comment text. No network call is
// made.
var ErrEmptyComment = errors.New("comment is empty")

// DefaultLimit is the fixed page size.
const DefaultLimit = 5

// how many cached posts a Refresh fallback restores at most.
const cachedSnapshotLimit = 50

// Feed ...
type Feed struct {
	remote  remote.Client
	cache   storage.Storage
	bus     *bus.Bus
	session *session.Session
	limit   int

	mu       sync.Mutex
	posts    []*entities.Post
	likedIDs map[string]struct{}
	page     int
	lastPage bool
	loading  bool
}

// New creates new instance of Feed.
func New(r remote.Client, c storage.Storage, b *bus.Bus, s *session.Session, limit int) *Feed {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &Feed{
		remote:   r,
		cache:    c,
		bus:      b,
		session:  s,
		limit:    limit,
		likedIDs: make(map[string]struct{}),
		page:     1,
	}
}

// Posts returns a detached copy of the current list.
func (f *Feed) Posts() []*entities.Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	return clonePosts(f.posts)
}

// IsLastPage ...
func (f *Feed) IsLastPage() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastPage
}

// LoadNext fetches the next page and appends it. It is a no-op while a load
// is in flight or after the last page was reached; a failed page leaves the
// cursor untouched so the same page is retried next time.
func (f *Feed) LoadNext(ctx context.Context) error {
	f.mu.Lock()
	if f.loading || f.lastPage {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	page := f.page
	f.mu.Unlock()

	res, err := f.remote.ListPosts(ctx, page, f.limit)

	f.mu.Lock()
	f.loading = false
	if err != nil {
		f.mu.Unlock()
		return fmt.Errorf("failed to load feed page %d: %w", page, err)
	}

	fresh := f.appendNew(res.Posts)
	f.page++
	f.lastPage = len(res.Posts) < f.limit
	f.mu.Unlock()

	metrics.FetchesTotal.WithLabelValues("feed", metrics.SourceRemote).Inc()

	if err := f.cache.UpsertPosts(ctx, fresh); err != nil {
		log.WithError(err).Warn("failed to cache feed page")
	}

	return nil
}

// Refresh resets the cursor, clears the list and loads page 1. If the remote
// is unavailable it restores the cached feed snapshot instead; only remote
// failure with an empty cache is an error.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	f.mu.Unlock()

	res, err := f.remote.ListPosts(ctx, 1, f.limit)

	f.mu.Lock()
	f.loading = false

	if err != nil {
		f.posts = nil
		f.page = 1
		f.lastPage = false
		f.mu.Unlock()

		cached, cerr := f.cache.ListPosts(ctx, cachedSnapshotLimit, 0)
		if cerr != nil {
			log.WithError(cerr).Warn("failed to read feed cache")
		}
		if len(cached) == 0 {
			metrics.FetchFailuresTotal.WithLabelValues("feed").Inc()
			return fmt.Errorf("failed to refresh feed: %w", err)
		}

		f.mu.Lock()
		f.posts = nil
		f.appendNew(cached)
		f.mu.Unlock()

		metrics.FetchesTotal.WithLabelValues("feed", metrics.SourceCache).Inc()
		log.WithError(err).Warn("feed served from cache")

		return nil
	}

	f.posts = nil
	fresh := f.appendNew(res.Posts)
	f.page = 2
	f.lastPage = len(res.Posts) < f.limit
	f.mu.Unlock()

	metrics.FetchesTotal.WithLabelValues("feed", metrics.SourceRemote).Inc()

	if err := f.cache.UpsertPosts(ctx, fresh); err != nil {
		log.WithError(err).Warn("failed to cache feed page")
	}

	return nil
}

// ToggleLike flips the like state of a post for the session user. The change
// is applied to the in-memory list before the network round-trip; the server
// response either confirms it (server post replaces the optimistic one) or
// rolls the whole list back to the snapshot captured before the change.
func (f *Feed) ToggleLike(ctx context.Context, postID string) error {
	f.mu.Lock()
	idx := f.indexOf(postID)
	if idx < 0 {
		f.mu.Unlock()
		return ErrPostNotFound
	}

	// snapshot is captured synchronously, before the first suspension point
	snapshot := clonePosts(f.posts)
	likedSnapshot := cloneSet(f.likedIDs)

	p := f.posts[idx].Clone()
	_, marked := f.likedIDs[postID]
	liked := marked || p.LikedBy(f.session.Username)

	if liked {
		p.Likes = removeLike(p.Likes, f.session.Username)
		if p.LikeNumber > 0 {
			p.LikeNumber--
		}
		p.IsLikedByMe = false
		delete(f.likedIDs, postID)
	} else {
		p.Likes = append(p.Likes, entities.Like{Username: f.session.Username})
		p.LikeNumber++
		p.IsLikedByMe = true
		f.likedIDs[postID] = struct{}{}
	}
	f.posts[idx] = p
	f.mu.Unlock()

	var (
		srv *entities.Post
		err error
	)
	if liked {
		srv, err = f.remote.UnlikePost(ctx, postID)
	} else {
		srv, err = f.remote.LikePost(ctx, postID)
	}

	f.mu.Lock()
	if err != nil {
		f.posts = snapshot
		f.likedIDs = likedSnapshot
		f.mu.Unlock()

		metrics.RollbacksTotal.WithLabelValues("like").Inc()

		return fmt.Errorf("failed to toggle like: %w", err)
	}

	// the server's like list is authoritative for the liked-id set
	srv.IsLikedByMe = srv.LikedBy(f.session.Username)
	if srv.IsLikedByMe {
		f.likedIDs[postID] = struct{}{}
	} else {
		delete(f.likedIDs, postID)
	}
	if i := f.indexOf(postID); i >= 0 {
		f.posts[i] = srv.Clone()
	}
	f.mu.Unlock()

	if err := f.cache.UpsertPost(ctx, srv); err != nil {
		log.WithError(err).Warn("failed to cache post")
	}

	f.bus.PublishPostUpdated(srv)

	return nil
}

// AddComment appends an optimistic comment and reconciles it with the server
// post, which carries the server-assigned timestamp.
func (f *Feed) AddComment(ctx context.Context, postID, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyComment
	}

	f.mu.Lock()
	idx := f.indexOf(postID)
	if idx < 0 {
		f.mu.Unlock()
		return ErrPostNotFound
	}

	snapshot := clonePosts(f.posts)

	p := f.posts[idx].Clone()
	p.Comments = append(p.Comments, entities.Comment{
		Content:   content,
		Author:    f.session.Username,
		CreatedAt: time.Now(),
	})
	p.CommentsNumber++
	f.posts[idx] = p
	f.mu.Unlock()

	srv, err := f.remote.AddComment(ctx, postID, content)

	f.mu.Lock()
	if err != nil {
		f.posts = snapshot
		f.mu.Unlock()

		metrics.RollbacksTotal.WithLabelValues("comment").Inc()

		return fmt.Errorf("failed to add comment: %w", err)
	}

	srv.IsLikedByMe = f.isLiked(srv)
	if i := f.indexOf(postID); i >= 0 {
		f.posts[i] = srv.Clone()
	}
	f.mu.Unlock()

	if err := f.cache.UpsertPost(ctx, srv); err != nil {
		log.WithError(err).Warn("failed to cache post")
	}

	f.bus.PublishPostUpdated(srv)

	return nil
}

// Remove deletes a post on the server, drops it locally and broadcasts the
// deletion. Not optimistic.
func (f *Feed) Remove(ctx context.Context, postID string) error {
	if err := f.remote.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	f.mu.Lock()
	if idx := f.indexOf(postID); idx >= 0 {
		f.posts = append(f.posts[:idx], f.posts[idx+1:]...)
	}
	delete(f.likedIDs, postID)
	f.mu.Unlock()

	if err := f.cache.DeletePost(ctx, postID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.WithError(err).Warn("failed to delete cached post")
	}

	f.bus.PublishPostDeleted(postID)

	return nil
}

// ApplyUpdate folds a postUpdated bus event into this feed. Feeds not holding
// the post ignore the event.
func (f *Feed) ApplyUpdate(p *entities.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.indexOf(p.ID)
	if idx < 0 {
		return
	}

	up := p.Clone()
	up.IsLikedByMe = f.isLiked(up)
	f.posts[idx] = up
}

// ApplyDelete folds a postDeleted bus event into this feed.
func (f *Feed) ApplyDelete(postID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if idx := f.indexOf(postID); idx >= 0 {
		f.posts = append(f.posts[:idx], f.posts[idx+1:]...)
	}
	delete(f.likedIDs, postID)
}

// appendNew appends posts not already held, preserving server order, and
// recomputes the transient liked flag. Caller must hold f.mu. Returns what
// was actually appended.
func (f *Feed) appendNew(pp []*entities.Post) []*entities.Post {
	held := make(map[string]struct{}, len(f.posts))
	for _, p := range f.posts {
		held[p.ID] = struct{}{}
	}

	fresh := make([]*entities.Post, 0, len(pp))
	for _, p := range pp {
		if _, ok := held[p.ID]; ok {
			continue
		}

		c := p.Clone()
		c.IsLikedByMe = f.isLiked(c)
		f.posts = append(f.posts, c)
		fresh = append(fresh, c)
	}

	return fresh
}

// isLiked covers posts fetched without the full like list populated via the
// locally tracked liked-id set. Caller must hold f.mu.
func (f *Feed) isLiked(p *entities.Post) bool {
	if _, ok := f.likedIDs[p.ID]; ok {
		return true
	}

	return p.LikedBy(f.session.Username)
}

func (f *Feed) indexOf(id string) int {
	for i, p := range f.posts {
		if p.ID == id {
			return i
		}
	}

	return -1
}

func clonePosts(pp []*entities.Post) []*entities.Post {
	out := make([]*entities.Post, len(pp))
	for i, p := range pp {
		out[i] = p.Clone()
	}

	return out
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}

	return out
}

func removeLike(ll []entities.Like, username string) []entities.Like {
	out := ll[:0]
	for _, l := range ll {
		if l.Username != username {
			out = append(out, l)
		}
	}

	return out
}
