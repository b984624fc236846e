package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rsilvagit/go-intern/internal/auth"
	"github.com/rsilvagit/go-intern/internal/filter"
	"github.com/rsilvagit/go-intern/internal/lifecycle"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/rsilvagit/go-intern/internal/session"
)

type authResponse struct {
	Token       string          `json:"token"`
	User        *model.User     `json:"user"`
	Internships []model.Listing `json:"internships,omitempty"`
}

func newAuthResponse(sess *session.Session) authResponse {
	u := sess.User()
	return authResponse{Token: u.Token, User: u, Internships: sess.Listings()}
}

func (s *Server) signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req session.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		sess := session.NewSession()
		if err := s.svc.Signup(c.Request.Context(), sess, req); err != nil {
			fail(c, err)
			return
		}
		s.sessions.put(sess.User().Email, sess)

		c.JSON(http.StatusCreated, newAuthResponse(sess))
	}
}

func (s *Server) login() gin.HandlerFunc {
	type loginReq struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	return func(c *gin.Context) {
		var req loginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		// Signing in again reuses the live session so its in-flight search
		// slot stays shared.
		sess := s.sessions.lookup(auth.NormalizeEmail(req.Email))
		if err := s.svc.Login(c.Request.Context(), sess, req.Email, req.Password); err != nil {
			fail(c, err)
			return
		}
		s.sessions.put(sess.User().Email, sess)

		c.JSON(http.StatusOK, newAuthResponse(sess))
	}
}

func (s *Server) logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		email := sess.User().Email

		if err := s.svc.Logout(c.Request.Context(), sess); err != nil {
			fail(c, err)
			return
		}
		s.sessions.drop(email)

		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	}
}

func (s *Server) me() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentSession(c).User())
	}
}

func (s *Server) updateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req session.ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		u, err := s.svc.UpdateProfile(c.Request.Context(), currentSession(c), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func (s *Server) search() gin.HandlerFunc {
	return func(c *gin.Context) {
		listings, err := s.svc.Search(c.Request.Context(), currentSession(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"internships": listings})
	}
}

func (s *Server) quickSearch() gin.HandlerFunc {
	type quickReq struct {
		Field string `json:"field"`
	}

	return func(c *gin.Context) {
		var req quickReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		listings, err := s.svc.QuickSearch(c.Request.Context(), currentSession(c), req.Field)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"internships": listings})
	}
}

func (s *Server) listInternships() gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := filter.ParseView(c.Query("view"))
		if err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		listings := s.svc.Filter(currentSession(c), filter.Options{
			View:     view,
			Field:    c.Query("field"),
			Location: c.Query("location"),
			WorkMode: c.Query("workMode"),
			Query:    c.Query("q"),
		})
		c.JSON(http.StatusOK, gin.H{"internships": listings})
	}
}

func (s *Server) apply() gin.HandlerFunc {
	return func(c *gin.Context) {
		applied, err := s.svc.Apply(c.Request.Context(), currentSession(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"applied": applied})
	}
}

func (s *Server) listPostings() gin.HandlerFunc {
	return func(c *gin.Context) {
		posted, err := s.svc.Postings(currentSession(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"postings": posted})
	}
}

func (s *Server) createPosting() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.Posting
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		listing, err := s.svc.Post(c.Request.Context(), currentSession(c), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, listing)
	}
}

func (s *Server) listApplications() gin.HandlerFunc {
	return func(c *gin.Context) {
		apps, err := s.svc.ApplicationsFor(c.Request.Context(), currentSession(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"applications": apps})
	}
}

func (s *Server) review() gin.HandlerFunc {
	type reviewReq struct {
		Status string `json:"status"`
	}

	return func(c *gin.Context) {
		var req reviewReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		decision, err := lifecycle.ParseApplicationStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		updated, err := s.svc.Review(c.Request.Context(), currentSession(c), c.Param("id"), decision)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

func (s *Server) chat() gin.HandlerFunc {
	type chatReq struct {
		Message string `json:"message"`
	}

	return func(c *gin.Context) {
		var req chatReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, erro(err))
			return
		}

		reply, err := s.svc.Chat(c.Request.Context(), currentSession(c), req.Message)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}

// uploadResume accepts a multipart "resume" file or a JSON {"filename": ...}.
// Only the file name is inspected.
func (s *Server) uploadResume() gin.HandlerFunc {
	type resumeReq struct {
		Filename string `json:"filename"`
	}

	return func(c *gin.Context) {
		var filename string
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			fh, err := c.FormFile("resume")
			if err != nil {
				c.JSON(http.StatusBadRequest, erro(err))
				return
			}
			filename = fh.Filename
		} else {
			var req resumeReq
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, erro(err))
				return
			}
			filename = req.Filename
		}

		feedback, err := s.svc.UploadResume(c.Request.Context(), currentSession(c), filename)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": feedback})
	}
}
