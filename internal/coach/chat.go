// Package coach contains the AI coach chat: a single-flight streaming
// consumer that folds server-sent text deltas into one growing assistant
// message.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/atalanta/internal/remote"
	"github.com/pulsefit/atalanta/internal/state"
)

var log = logrus.WithField("package", "coach")

// ErrEmptyQuestion is returned for blank questions. No network call is made.
var ErrEmptyQuestion = errors.New("question is empty")

// Chat is one coach conversation. Asking a new question cancels the
// in-flight stream for this conversation before starting the new one.
type Chat struct {
	remote         remote.Client
	conversationID string
	message        *state.Store[string]

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// NewChat creates a chat with a fresh conversation id.
func NewChat(r remote.Client) *Chat {
	return &Chat{
		remote:         r,
		conversationID: uuid.NewString(),
		message:        state.NewStore(""),
	}
}

// ConversationID ...
func (c *Chat) ConversationID() string {
	return c.conversationID
}

// Message exposes the growing assistant message; subscribers observe every
// fold step.
func (c *Chat) Message() *state.Store[string] {
	return c.message
}

// Ask streams the answer to question, folding deltas into Message as they
// arrive, and returns the final message. Cancelling ctx (or asking again)
// closes the underlying connection; no further deltas are emitted.
func (c *Chat) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	c.mu.Lock()
	if c.cancel != nil {
		log.WithField("conversation", c.conversationID).Debug("cancelling previous stream")
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	defer func() {
		cancel()

		// only the newest call owns the stored cancel
		c.mu.Lock()
		if c.gen == gen {
			c.cancel = nil
		}
		c.mu.Unlock()
	}()

	c.message.Set("")

	body, err := c.remote.CoachStream(ctx, c.conversationID, question)
	if err != nil {
		return "", fmt.Errorf("failed to open coach stream: %w", err)
	}
	defer body.Close() // nolint

	err = reduce(body, func(delta string) {
		c.message.Set(merge(c.message.Get(), delta))
	})

	if cerr := ctx.Err(); cerr != nil {
		return c.message.Get(), cerr
	}
	if err != nil {
		return c.message.Get(), err
	}

	return c.message.Get(), nil
}
