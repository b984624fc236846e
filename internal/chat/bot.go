// Package chat implements the scripted internship assistant.
package chat

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of a chat transcript.
type Message struct {
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

var ErrInvalidFileType = errors.New("please upload a PDF, DOC, DOCX, or TXT file")

// ResumeExtensions lists the accepted resume file extensions.
var ResumeExtensions = []string{".pdf", ".doc", ".docx", ".txt"}

const (
	greetingReply   = "Hello! I'm your internship assistant. I can help you find no-experience internships, improve your resume, or prepare for interviews. How can I help you today?"
	internshipReply = "I can help you find internships that require no prior experience! Based on your profile, I recommend checking the opportunities in your dashboard. You can also use quick search to find internships in a specific field."
	resumeReply     = "For no-experience internships, focus on highlighting your: 1) Transferable skills (communication, teamwork) 2) Education and courses 3) Projects or volunteer work 4) Willingness to learn. You can upload your resume for analysis!"
	interviewReply  = "For no-experience internship interviews: 1) Research the company 2) Practice common questions 3) Emphasize your learning attitude 4) Prepare questions to ask 5) Dress professionally 6) Be enthusiastic about the opportunity!"
	defaultReply    = "I specialize in helping students find no-experience-required internships! You can ask me about internship search, resume tips, interview preparation, or career advice for beginners."

	// ResumeFeedback is the canned analysis sent after an accepted upload.
	ResumeFeedback = "I've analyzed your resume! For no-experience positions, I recommend:\n\n" +
		"- Focus on transferable skills like communication and teamwork\n" +
		"- Highlight relevant coursework and projects\n" +
		"- Include volunteer work and extracurricular activities\n" +
		"- Add a strong career objective\n" +
		"- Keep it clean and professional\n\n" +
		"Your resume shows good potential for entry-level positions!"
)

type rule struct {
	keywords []string
	reply    string
}

// Rules are checked in order; the first keyword hit wins.
var rules = []rule{
	{keywords: []string{"hello", "hi"}, reply: greetingReply},
	{keywords: []string{"internship", "job"}, reply: internshipReply},
	{keywords: []string{"resume", "cv"}, reply: resumeReply},
	{keywords: []string{"interview"}, reply: interviewReply},
}

// Bot answers messages from a fixed script.
type Bot struct{}

func NewBot() *Bot {
	return &Bot{}
}

// Reply returns the scripted answer for message. Keywords match anywhere in
// the lowercased text, so "this" counts as a greeting.
func (b *Bot) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.reply
			}
		}
	}
	return defaultReply
}

// ValidateResume checks the upload's extension, case-insensitively.
func ValidateResume(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, ok := range ResumeExtensions {
		if ext == ok {
			return nil
		}
	}
	return ErrInvalidFileType
}

// UploadNotice is the user-side transcript line for an accepted upload.
func UploadNotice(filename string) string {
	return "Resume uploaded: " + filepath.Base(filename)
}
