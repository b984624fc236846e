package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rsilvagit/go-intern/internal/auth"
	"github.com/rsilvagit/go-intern/internal/chat"
	"github.com/rsilvagit/go-intern/internal/generator"
	"github.com/rsilvagit/go-intern/internal/match"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/output"
	"github.com/rsilvagit/go-intern/internal/source"
	"github.com/rsilvagit/go-intern/internal/store"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Options tunes the simulated delays and persistence of the active user.
type Options struct {
	SearchDelay      time.Duration
	QuickSearchDelay time.Duration
	ChatDelay        time.Duration
	ResumeDelay      time.Duration
	// TrackCurrentUser persists the signed-in user under the currentUser key,
	// like a single-user browser. Multi-user front ends leave it off.
	TrackCurrentUser bool
}

// DefaultOptions returns the standard simulated delays.
func DefaultOptions() Options {
	return Options{
		SearchDelay:      2 * time.Second,
		QuickSearchDelay: 1500 * time.Millisecond,
		ChatDelay:        time.Second,
		ResumeDelay:      2 * time.Second,
		TrackCurrentUser: true,
	}
}

// Deps are the collaborators a Service needs. Generator, Scorer, Bot,
// Notifier, Clock and Logger are optional.
type Deps struct {
	State     *store.State
	Accounts  *auth.Accounts
	Tokens    *auth.Tokens
	Generator *generator.Generator
	Scorer    *match.Scorer
	Notifier  output.Notifier
	Bot       *chat.Bot
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Service encapsulates the marketplace operations. It has no dependency on
// a transport: the CLI and the HTTP API both drive it.
type Service struct {
	state     *store.State
	accounts  *auth.Accounts
	tokens    *auth.Tokens
	generated source.Source
	posted    source.Source
	scorer    *match.Scorer
	notifier  output.Notifier
	bot       *chat.Bot
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger
	opts      Options

	// appsMu serializes read-modify-write cycles on applications_<email>.
	appsMu sync.Mutex
}

// NewService returns a configured Service.
func NewService(d Deps, opts Options) *Service {
	if d.Generator == nil {
		d.Generator = generator.New()
	}
	if d.Scorer == nil {
		d.Scorer = match.NewScorer(match.DefaultThresholds())
	}
	if d.Notifier == nil {
		d.Notifier = output.NewLogNotifier(d.Logger)
	}
	if d.Bot == nil {
		d.Bot = chat.NewBot()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		state:     d.State,
		accounts:  d.Accounts,
		tokens:    d.Tokens,
		generated: source.NewGenerated(d.Generator),
		posted:    source.NewPosted(d.State),
		scorer:    d.Scorer,
		notifier:  d.Notifier,
		bot:       d.Bot,
		validate:  v,
		now:       d.Clock,
		logger:    d.Logger,
		opts:      opts,
	}
}

// ─── Session lifecycle ───────────────────────────────────────────────────────

// Restore rebuilds the session of the persisted current user. With nobody
// signed in the session is anonymous. A corrupted entry has already been
// discarded by the store and also yields an anonymous session.
func (svc *Service) Restore(ctx context.Context) (*Session, error) {
	u, err := svc.state.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore current user: %w", err)
	}
	if u == nil {
		return NewSession(), nil
	}
	return svc.Load(ctx, u)
}

// Load builds a session for u from its persisted collections.
func (svc *Service) Load(ctx context.Context, u *model.User) (*Session, error) {
	s := NewSession()
	s.reset(u)

	switch u.UserType {
	case model.UserStudent:
		listings, err := svc.state.Internships(ctx, u.Email)
		if err != nil {
			return nil, fmt.Errorf("load internships: %w", err)
		}
		s.listings = listings
	case model.UserRecruiter:
		posted, err := svc.state.Posted(ctx, u.Email)
		if err != nil {
			return nil, fmt.Errorf("load posted internships: %w", err)
		}
		apps, err := svc.state.Applications(ctx, u.Email)
		if err != nil {
			return nil, fmt.Errorf("load applications: %w", err)
		}
		s.posted = posted
		s.applications = apps
	}
	return s, nil
}

// Authenticate resolves a session token to its user's current profile.
func (svc *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := svc.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	u, err := svc.accounts.Lookup(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if u == nil {
		return nil, auth.ErrInvalidToken
	}
	u.Token = token
	return u, nil
}

// SignupRequest carries the signup form.
type SignupRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Phone        string   `json:"phone" validate:"max=30"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=6"`
	UserType     string   `json:"userType" validate:"required,oneof=student recruiter"`
	Skills       string   `json:"skills"`
	Company      string   `json:"company" validate:"required_if=UserType recruiter"`
	CareerFields []string `json:"careerFields"`
}

// Signup registers an account and signs it in. Students get an automatic
// search right away.
func (svc *Service) Signup(ctx context.Context, s *Session, req SignupRequest) error {
	if err := svc.validate.Struct(req); err != nil {
		return newValidationError(err)
	}

	u := model.User{
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    auth.NormalizeEmail(req.Email),
		UserType: model.UserType(req.UserType),
	}
	if u.IsStudent() {
		u.Skills = model.SplitSkills(req.Skills)
		u.CareerFields = parseCareerFields(req.CareerFields)
	} else {
		u.Company = strings.TrimSpace(req.Company)
	}

	if err := svc.accounts.Register(ctx, u, req.Password); err != nil {
		if errors.Is(err, auth.ErrAccountExists) {
			svc.notify(ctx, "Signup Failed", "An account with this email already exists.")
		}
		return err
	}

	if err := svc.signIn(ctx, s, &u); err != nil {
		return err
	}

	if u.IsStudent() {
		svc.notify(ctx, "Account Created", "Your student account has been created! We are searching for internships matching your skills...")
		svc.autoSearch(ctx, s)
	} else {
		svc.notify(ctx, "Account Created", "Your recruiter account has been created! You can now post internships.")
	}
	return nil
}

// Login signs in with email and password. Rejected credentials leave the
// session untouched.
func (svc *Service) Login(ctx context.Context, s *Session, email, password string) error {
	u, err := svc.accounts.Authenticate(ctx, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		svc.notify(ctx, "Login Failed", "Invalid email or password. Try 'student@test.com' or 'recruiter@test.com' with password 'password'")
		return err
	}
	if err != nil {
		return err
	}

	if err := svc.signIn(ctx, s, u); err != nil {
		return err
	}

	if u.IsStudent() {
		svc.notify(ctx, "Login Successful", "Welcome back! Searching for internships matching your skills...")
		svc.autoSearch(ctx, s)
	} else {
		svc.notify(ctx, "Login Successful", "Welcome to your recruiter dashboard!")
	}
	return nil
}

// Logout clears the session and the persisted current user.
func (svc *Service) Logout(ctx context.Context, s *Session) error {
	s.reset(nil)
	if svc.opts.TrackCurrentUser {
		if err := svc.state.ClearCurrentUser(ctx); err != nil {
			return fmt.Errorf("clear current user: %w", err)
		}
	}
	svc.notify(ctx, "Logged Out", "You have been successfully logged out.")
	return nil
}

// signIn issues a token for u and loads its collections into s.
func (svc *Service) signIn(ctx context.Context, s *Session, u *model.User) error {
	token, err := svc.tokens.Issue(u.Email, string(u.UserType))
	if err != nil {
		return err
	}
	u.Token = token

	loaded, err := svc.Load(ctx, u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = loaded.user
	s.listings = loaded.listings
	s.posted = loaded.posted
	s.applications = loaded.applications
	s.transcript = nil
	s.mu.Unlock()

	return svc.saveCurrentUser(ctx, u)
}

func (svc *Service) autoSearch(ctx context.Context, s *Session) {
	if _, err := svc.Search(ctx, s); err != nil {
		svc.logger.WarnContext(ctx, "automatic search failed", "err", err)
	}
}

func (svc *Service) saveCurrentUser(ctx context.Context, u *model.User) error {
	if !svc.opts.TrackCurrentUser {
		return nil
	}
	if err := svc.state.SaveCurrentUser(ctx, u); err != nil {
		return fmt.Errorf("save current user: %w", err)
	}
	return nil
}

// notify never fails the calling action.
func (svc *Service) notify(ctx context.Context, title, message string) {
	if err := svc.notifier.Notify(ctx, title, message); err != nil {
		svc.logger.WarnContext(ctx, "notification failed", "title", title, "err", err)
	}
}

// requireUser returns the signed-in user, checking its type when want is set.
func requireUser(s *Session, want model.UserType) (*model.User, error) {
	u := s.User()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	switch {
	case want == model.UserStudent && !u.IsStudent():
		return nil, ErrNotStudent
	case want == model.UserRecruiter && !u.IsRecruiter():
		return nil, ErrNotRecruiter
	}
	return u, nil
}

func parseCareerFields(raw []string) []model.CareerField {
	var fields []model.CareerField
	for _, r := range raw {
		if f, ok := model.ParseCareerField(r); ok && !slices.Contains(fields, f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
