package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rsilvagit/go-intern/internal/model"
)

// Account is the stored credential record of a registered user.
type Account struct {
	User         model.User `json:"user"`
	PasswordHash string     `json:"passwordHash"`
}

// State gives typed access to the persisted keys. Entries that fail to decode
// are deleted and reported as absent.
type State struct {
	kv     Store
	logger *slog.Logger
}

// NewState wraps kv.
func NewState(kv Store, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{kv: kv, logger: logger}
}

// Store exposes the underlying key-value store.
func (s *State) Store() Store { return s.kv }

// load decodes key into a T. ok is false when the key is absent or held a
// corrupted value, which is removed.
func load[T any](ctx context.Context, s *State, key string) (T, bool, error) {
	var v T

	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("discarding corrupted state entry", "key", key, "err", err)
		if delErr := s.kv.Delete(ctx, key); delErr != nil {
			s.logger.Warn("delete corrupted entry failed", "key", key, "err", delErr)
		}
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}

func (s *State) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store: save %s: %w", key, err)
	}
	return nil
}

// CurrentUser returns the persisted active user, or nil.
func (s *State) CurrentUser(ctx context.Context) (*model.User, error) {
	u, ok, err := load[model.User](ctx, s, KeyCurrentUser)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *State) SaveCurrentUser(ctx context.Context, u *model.User) error {
	return s.save(ctx, KeyCurrentUser, u)
}

func (s *State) ClearCurrentUser(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyCurrentUser)
}

// Internships returns a student's working listing collection.
func (s *State) Internships(ctx context.Context, email string) ([]model.Listing, error) {
	l, _, err := load[[]model.Listing](ctx, s, UserInternshipsKey(email))
	return l, err
}

func (s *State) SaveInternships(ctx context.Context, email string, listings []model.Listing) error {
	return s.save(ctx, UserInternshipsKey(email), listings)
}

// Posted returns the listings a recruiter has posted, newest first.
func (s *State) Posted(ctx context.Context, email string) ([]model.Listing, error) {
	l, _, err := load[[]model.Listing](ctx, s, PostedListingsKey(email))
	return l, err
}

func (s *State) SavePosted(ctx context.Context, email string, listings []model.Listing) error {
	return s.save(ctx, PostedListingsKey(email), listings)
}

// AllPosted collects every recruiter's posted listings, recruiters in key
// order and each recruiter's listings in stored order.
func (s *State) AllPosted(ctx context.Context) ([]model.Listing, error) {
	keys, err := s.kv.Keys(ctx, PrefixPostedListings)
	if err != nil {
		return nil, err
	}

	var all []model.Listing
	for _, k := range keys {
		l, _, err := load[[]model.Listing](ctx, s, k)
		if err != nil {
			return nil, err
		}
		all = append(all, l...)
	}
	return all, nil
}

// Applications returns the applications addressed to a recruiter.
func (s *State) Applications(ctx context.Context, email string) ([]model.Application, error) {
	a, _, err := load[[]model.Application](ctx, s, ApplicationsKey(email))
	return a, err
}

func (s *State) SaveApplications(ctx context.Context, email string, apps []model.Application) error {
	return s.save(ctx, ApplicationsKey(email), apps)
}

// ApplicationOwners lists the recruiter emails holding application records.
func (s *State) ApplicationOwners(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, PrefixApplications)
	if err != nil {
		return nil, err
	}
	owners := make([]string, 0, len(keys))
	for _, k := range keys {
		owners = append(owners, strings.TrimPrefix(k, PrefixApplications))
	}
	return owners, nil
}

// Account returns the stored account for email, or nil.
func (s *State) Account(ctx context.Context, email string) (*Account, error) {
	a, ok, err := load[Account](ctx, s, AccountKey(email))
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

func (s *State) SaveAccount(ctx context.Context, a *Account) error {
	return s.save(ctx, AccountKey(a.User.Email), a)
}
