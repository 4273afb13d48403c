package streams

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasperFyhn/ulgis/internal/llm"
	"github.com/KasperFyhn/ulgis/internal/logger"
)

var (
	// ErrUnknownToken means the token was never issued, already consumed,
	// expired, or cancelled.
	ErrUnknownToken = errors.New("streams: unknown token")
	// ErrStreamBusy means another consumer already acquired the stream.
	ErrStreamBusy = errors.New("streams: stream already being consumed")
)

// defaultTTL bounds how long an unconsumed stream may sit in the registry
// before it is swept and its provider connection closed.
const defaultTTL = 10 * time.Minute

type session struct {
	stream   llm.Stream
	acquired bool
	created  time.Time
}

// Registry holds pending generation streams between the POST that starts a
// generation and the GET that consumes it. Tokens are single-use: a stream is
// handed out exactly once and removed when the consumer is done with it.
// Streams that are never consumed expire after a TTL so abandoned tokens do
// not hold provider connections open indefinitely.
type Registry struct {
	log *logger.Logger
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		log:      log.With("service", "StreamRegistry"),
		ttl:      defaultTTL,
		sessions: make(map[string]*session),
	}
}

// Put stores a pending stream and returns its opaque token.
func (r *Registry) Put(stream llm.Stream) string {
	token := uuid.NewString()
	r.mu.Lock()
	expired := r.sweepLocked(time.Now())
	r.sessions[token] = &session{stream: stream, created: time.Now()}
	r.mu.Unlock()
	for _, sess := range expired {
		if err := sess.stream.Close(); err != nil {
			r.log.Warn("closing expired stream failed", "error", err)
		}
	}
	r.log.Debug("stream registered", "token", token)
	return token
}

// Acquire hands out the stream for a token. A second Acquire for the same
// token fails with ErrStreamBusy until Remove is called.
func (r *Registry) Acquire(token string) (llm.Stream, error) {
	r.mu.Lock()
	sess, ok := r.sessions[token]
	if !ok {
		r.mu.Unlock()
		return nil, ErrUnknownToken
	}
	if !sess.acquired && time.Since(sess.created) > r.ttl {
		delete(r.sessions, token)
		r.mu.Unlock()
		if err := sess.stream.Close(); err != nil {
			r.log.Warn("closing expired stream failed", "token", token, "error", err)
		}
		return nil, ErrUnknownToken
	}
	if sess.acquired {
		r.mu.Unlock()
		return nil, ErrStreamBusy
	}
	sess.acquired = true
	r.mu.Unlock()
	return sess.stream, nil
}

// sweepLocked drops unacquired sessions older than the TTL and returns them
// so their streams can be closed outside the lock. Callers must hold r.mu.
func (r *Registry) sweepLocked(now time.Time) []*session {
	var expired []*session
	for token, sess := range r.sessions {
		if sess.acquired || now.Sub(sess.created) <= r.ttl {
			continue
		}
		delete(r.sessions, token)
		expired = append(expired, sess)
		r.log.Debug("stream expired", "token", token)
	}
	return expired
}

// Remove forgets a token and closes its stream if it is still pending. It is
// called both after a completed consumption and to cancel an unconsumed
// stream.
func (r *Registry) Remove(token string) {
	r.mu.Lock()
	sess, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	if !ok {
		return
	}
	if err := sess.stream.Close(); err != nil {
		r.log.Warn("closing stream failed", "token", token, "error", err)
	}
	r.log.Debug("stream removed", "token", token)
}

// Len reports the number of pending streams, for observability.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
