// Package server exposes the marketplace operations as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rsilvagit/go-intern/internal/auth"
	"github.com/rsilvagit/go-intern/internal/chat"
	"github.com/rsilvagit/go-intern/internal/session"
)

const sessionKey = "session"

// Options configures the listener.
type Options struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins []string
}

// Server routes HTTP requests to the session service.
type Server struct {
	svc      *session.Service
	sessions *registry
	engine   *gin.Engine
	opts     Options
	logger   *slog.Logger
}

// New builds the router.
func New(svc *session.Service, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		svc:      svc,
		sessions: newRegistry(),
		engine:   gin.New(),
		opts:     opts,
		logger:   logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), requestLogger(s.logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.opts.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"*"}
	}
	corsConfig.AllowWildcard = true
	corsConfig.AllowHeaders = []string{"Authorization", "Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/signup", s.signup())
	api.POST("/login", s.login())

	// Chat works without an account, like the floating assistant.
	api.POST("/chat", s.withSession(false), s.chat())
	api.POST("/chat/resume", s.withSession(false), s.uploadResume())

	authed := api.Group("", s.withSession(true))
	authed.POST("/logout", s.logout())
	authed.GET("/me", s.me())
	authed.PUT("/me", s.updateProfile())
	authed.POST("/search", s.search())
	authed.POST("/search/quick", s.quickSearch())
	authed.GET("/internships", s.listInternships())
	authed.POST("/internships/:id/apply", s.apply())
	authed.GET("/postings", s.listPostings())
	authed.POST("/postings", s.createPosting())
	authed.GET("/postings/:id/applications", s.listApplications())
	authed.POST("/applications/:id/review", s.review())
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.opts.Port),
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// withSession resolves the bearer token to the user's live session. When
// required is false an anonymous session is used for missing tokens.
func (s *Server) withSession(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, erro(session.ErrNotLoggedIn))
				return
			}
			c.Set(sessionKey, session.NewSession())
			c.Next()
			return
		}

		u, err := s.svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), erro(err))
			return
		}

		sess, err := s.sessions.get(c.Request.Context(), s.svc, u)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, erro(err))
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func bearerToken(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func erro(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var ve *session.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, chat.ErrInvalidFileType):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, session.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrNotStudent), errors.Is(err, session.ErrNotRecruiter):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrAccountExists), errors.Is(err, session.ErrSearchInProgress):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), erro(err))
}
