package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rsilvagit/go-intern/internal/chat"
	"github.com/rsilvagit/go-intern/internal/model"
)

// ProfileRequest carries the profile form. Skills is a comma-separated list.
type ProfileRequest struct {
	Name         string            `json:"name" validate:"required,max=100"`
	Phone        string            `json:"phone" validate:"max=30"`
	Skills       string            `json:"skills"`
	CareerFields []string          `json:"careerFields"`
	Preferences  model.Preferences `json:"preferences"`
}

// UpdateProfile replaces the editable profile fields. Unknown career fields
// are dropped.
func (svc *Service) UpdateProfile(ctx context.Context, s *Session, req ProfileRequest) (*model.User, error) {
	if err := svc.validate.Struct(req); err != nil {
		return nil, newValidationError(err)
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	s.user.Name = strings.TrimSpace(req.Name)
	s.user.Phone = strings.TrimSpace(req.Phone)
	s.user.Skills = model.SplitSkills(req.Skills)
	s.user.CareerFields = parseCareerFields(req.CareerFields)
	s.user.Preferences = model.Preferences{
		Location: strings.TrimSpace(req.Preferences.Location),
		WorkMode: strings.TrimSpace(req.Preferences.WorkMode),
	}
	s.mu.Unlock()

	u := s.User()
	if err := svc.accounts.UpdateProfile(ctx, *u); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := svc.saveCurrentUser(ctx, u); err != nil {
		return nil, err
	}

	svc.notify(ctx, "Profile Updated", "Your profile has been updated successfully!")
	return u, nil
}

// Chat records message, waits the simulated typing delay and records the
// assistant's reply. Blank messages are ignored.
func (svc *Service) Chat(ctx context.Context, s *Session, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", nil
	}

	s.appendMessage(chat.Message{Sender: chat.SenderUser, Text: message, At: svc.now()})

	if err := sleep(ctx, svc.opts.ChatDelay); err != nil {
		return "", err
	}

	reply := svc.bot.Reply(message)
	s.appendMessage(chat.Message{Sender: chat.SenderBot, Text: reply, At: svc.now()})
	return reply, nil
}

// UploadResume accepts a resume by file name and answers with canned
// feedback. An unsupported extension notifies "Invalid File" and leaves the
// transcript untouched.
func (svc *Service) UploadResume(ctx context.Context, s *Session, filename string) (string, error) {
	if err := chat.ValidateResume(filename); err != nil {
		if errors.Is(err, chat.ErrInvalidFileType) {
			svc.notify(ctx, "Invalid File", "Please upload a PDF, DOC, DOCX, or TXT file.")
		}
		return "", err
	}

	s.appendMessage(chat.Message{Sender: chat.SenderUser, Text: chat.UploadNotice(filename), At: svc.now()})

	if err := sleep(ctx, svc.opts.ResumeDelay); err != nil {
		return "", err
	}

	s.appendMessage(chat.Message{Sender: chat.SenderBot, Text: chat.ResumeFeedback, At: svc.now()})
	return chat.ResumeFeedback, nil
}
