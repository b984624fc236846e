package server

import (
	"context"
	"sync"

	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/session"
)

// registry keeps one live session per signed-in email so concurrent requests
// of the same user share the in-flight search slot.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session.Session)}
}

// lookup returns the live session of email, or a fresh unregistered one.
func (r *registry) lookup(email string) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[email]; ok {
		return s
	}
	return session.NewSession()
}

func (r *registry) put(email string, s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[email] = s
}

func (r *registry) drop(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, email)
}

// get returns the live session for u, loading it from the store on first use.
func (r *registry) get(ctx context.Context, svc *session.Service, u *model.User) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[u.Email]; ok {
		return s, nil
	}
	s, err := svc.Load(ctx, u)
	if err != nil {
		return nil, err
	}
	r.sessions[u.Email] = s
	return s, nil
}
