package model

import "strings"

// UserType distinguishes the two kinds of accounts.
type UserType string

const (
	UserStudent   UserType = "student"
	UserRecruiter UserType = "recruiter"
)

// CareerField is one of the fixed fields listings are generated for.
type CareerField string

const (
	FieldEngineering CareerField = "Engineering"
	FieldMedicine    CareerField = "Medicine"
	FieldBusiness    CareerField = "Business"
	FieldScience     CareerField = "Science"
	FieldArt         CareerField = "Art"
	FieldEducation   CareerField = "Education"
)

// CareerFields is the fixed enumeration in canonical order.
var CareerFields = []CareerField{
	FieldEngineering,
	FieldMedicine,
	FieldBusiness,
	FieldScience,
	FieldArt,
	FieldEducation,
}

// ParseCareerField matches s case-insensitively against the enumeration.
func ParseCareerField(s string) (CareerField, bool) {
	s = strings.TrimSpace(s)
	for _, f := range CareerFields {
		if strings.EqualFold(s, string(f)) {
			return f, true
		}
	}
	return "", false
}

// Preferences holds a student's job preferences.
type Preferences struct {
	Location string `json:"location,omitempty"`
	WorkMode string `json:"workMode,omitempty"`
}

// User is the profile of the active session's account.
type User struct {
	Name         string        `json:"name"`
	Phone        string        `json:"phone,omitempty"`
	Email        string        `json:"email"`
	UserType     UserType      `json:"userType"`
	Skills       []string      `json:"skills,omitempty"`
	Company      string        `json:"company,omitempty"`
	CareerFields []CareerField `json:"careerFields,omitempty"`
	Preferences  Preferences   `json:"preferences"`
	Token        string        `json:"token,omitempty"`
}

func (u *User) IsStudent() bool   { return u != nil && u.UserType == UserStudent }
func (u *User) IsRecruiter() bool { return u != nil && u.UserType == UserRecruiter }

// SplitSkills parses a comma-separated skill list, trimming entries and
// dropping empty ones.
func SplitSkills(raw string) []string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
