package session

import (
	"context"
	"testing"

	"github.com/rsilvagit/go-intern/internal/chat"
	"github.com/rsilvagit/go-intern/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, Options{TrackCurrentUser: true})
	ctx := context.Background()
	s := NewSession()
	require.NoError(t, f.svc.Signup(ctx, s, SignupRequest{
		Name: "Ana", Email: "ana@x.com", Password: "secret1", UserType: "student",
	}))

	u, err := f.svc.UpdateProfile(ctx, s, ProfileRequest{
		Name:         "Ana Maria",
		Phone:        "555-0100",
		Skills:       "Python, , SQL ",
		CareerFields: []string{"Science", "bogus"},
		Preferences:  model.Preferences{Location: " Lisbon ", WorkMode: "Remote"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, []string{"Python", "SQL"}, u.Skills)
	assert.Equal(t, []model.CareerField{model.FieldScience}, u.CareerFields)
	assert.Equal(t, model.Preferences{Location: "Lisbon", WorkMode: "Remote"}, u.Preferences)
	assert.Equal(t, "Profile Updated", f.notes.last().title)

	current, err := f.state.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, current)

	stored, err := f.svc.accounts.Lookup(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", stored.Name)
}

func TestUpdateProfile_Errors(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, NewSession(), ProfileRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = f.svc.UpdateProfile(ctx, f.login(t, "student@test.com"), ProfileRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name is required", ve.Msg)
}

func TestChat(t *testing.T) {
	f := newFixture(t, Options{})
	s := NewSession()

	reply, err := f.svc.Chat(context.Background(), s, "  any interview advice?  ")
	require.NoError(t, err)
	assert.Equal(t, chat.NewBot().Reply("interview"), reply)

	transcript := s.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, chat.SenderUser, transcript[0].Sender)
	assert.Equal(t, "any interview advice?", transcript[0].Text)
	assert.Equal(t, chat.SenderBot, transcript[1].Sender)
	assert.Equal(t, reply, transcript[1].Text)

	reply, err = f.svc.Chat(context.Background(), s, "   ")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Len(t, s.Transcript(), 2)
}

func TestUploadResume(t *testing.T) {
	f := newFixture(t, Options{})
	s := NewSession()

	_, err := f.svc.UploadResume(context.Background(), s, "photo.png")
	assert.ErrorIs(t, err, chat.ErrInvalidFileType)
	assert.Empty(t, s.Transcript())
	assert.Equal(t, note{"Invalid File", "Please upload a PDF, DOC, DOCX, or TXT file."}, f.notes.last())

	feedback, err := f.svc.UploadResume(context.Background(), s, "/tmp/My CV.PDF")
	require.NoError(t, err)
	assert.Equal(t, chat.ResumeFeedback, feedback)

	transcript := s.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, "Resume uploaded: My CV.PDF", transcript[0].Text)
	assert.Equal(t, chat.ResumeFeedback, transcript[1].Text)
}
