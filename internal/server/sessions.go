package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reelgrab/pkg/orchestrator"
	"reelgrab/pkg/ratelimit"
)

const (
	sessionCookie = "reelgrab_session"
	sessionKey    = "session"
)

// session is one browser. Each gets its own orchestrator so one user's
// download never blocks another's.
type session struct {
	id       string
	orch     *orchestrator.Orchestrator
	limiter  *ratelimit.TokenBucket
	lastSeen time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	perMin   int
	newOrch  func(id string) (*orchestrator.Orchestrator, error)
}

func newSessionStore(ttl time.Duration, perMinute int, newOrch func(string) (*orchestrator.Orchestrator, error)) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		perMin:   perMinute,
		newOrch:  newOrch,
	}
}

// get returns the session for id, creating one when id is unknown or
// malformed. The returned session's id may differ from the argument.
func (st *sessionStore) get(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	if sess, ok := st.sessions[id]; ok {
		sess.lastSeen = now
		return sess, nil
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	orch, err := st.newOrch(id)
	if err != nil {
		return nil, err
	}

	sess := &session{id: id, orch: orch, lastSeen: now}
	if st.perMin > 0 {
		sess.limiter = ratelimit.NewTokenBucket(st.perMin, time.Minute)
	}
	st.sessions[id] = sess
	return sess, nil
}

// expire drops idle sessions that have nothing in flight
func (st *sessionStore) expire(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if now.Sub(sess.lastSeen) > st.ttl && !sess.orch.Busy() {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *sessionStore) sweep(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			st.expire(now)
		}
	}
}

// sessionMiddleware attaches the caller's session, issuing a cookie when
// the browser has none
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)

		sess, err := s.sessions.get(id)
		if err != nil {
			s.logger.WithError(err).Error("Failed to create session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{Message: "session unavailable"})
			return
		}

		if sess.id != id {
			maxAge := int(s.cfg.Server.SessionTTL.Seconds())
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sess.id, maxAge, "/", "", false, true)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session)
	return sess
}
