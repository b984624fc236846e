// Package session owns the active user's working state and the operations a
// student or recruiter performs against it.
package session

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rsilvagit/go-intern/internal/chat"
	"github.com/rsilvagit/go-intern/internal/model"
)

// Session is the explicitly owned context of one signed-in user: the working
// listing collection (students), the posted listings and received
// applications (recruiters), and the chat transcript. It is safe for
// concurrent use.
type Session struct {
	mu           sync.Mutex
	user         *model.User
	listings     []model.Listing
	posted       []model.Listing
	applications []model.Application
	transcript   []chat.Message

	// searching is the single in-flight search slot.
	searching atomic.Bool
}

// NewSession returns an anonymous session.
func NewSession() *Session {
	return &Session{}
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Skills = slices.Clone(u.Skills)
	u.CareerFields = slices.Clone(u.CareerFields)
	return &u
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Listings returns a copy of the working listing collection.
func (s *Session) Listings() []model.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.listings)
}

// Posted returns a copy of the recruiter's posted listings, newest first.
func (s *Session) Posted() []model.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posted)
}

// Applications returns a copy of the applications received by the recruiter.
func (s *Session) Applications() []model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.applications)
}

// Transcript returns a copy of the chat history.
func (s *Session) Transcript() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transcript)
}

// Searching reports whether a search currently holds the slot.
func (s *Session) Searching() bool {
	return s.searching.Load()
}

// ResolveListingID expands a unique id prefix to the full listing id. The
// input is returned unchanged when it matches zero or several listings.
func (s *Session) ResolveListingID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.listings)+len(s.posted))
	for _, l := range s.listings {
		ids = append(ids, l.ID)
	}
	for _, l := range s.posted {
		ids = append(ids, l.ID)
	}
	return resolvePrefix(ids, prefix)
}

// ResolveApplicationID expands a unique application id prefix.
func (s *Session) ResolveApplicationID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.applications))
	for _, a := range s.applications {
		ids = append(ids, a.ID)
	}
	return resolvePrefix(ids, prefix)
}

func resolvePrefix(ids []string, prefix string) string {
	if prefix == "" {
		return prefix
	}
	match := ""
	for _, id := range ids {
		if id == prefix {
			return id
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" && match != id {
				return prefix
			}
			match = id
		}
	}
	if match == "" {
		return prefix
	}
	return match
}

func (s *Session) reset(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.listings = nil
	s.posted = nil
	s.applications = nil
	s.transcript = nil
}

func (s *Session) appendMessage(m chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, m)
}
