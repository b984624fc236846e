package model

// Posting is a recruiter's request to publish an internship.
type Posting struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Company     string   `json:"company" validate:"required,max=200"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Duration    string   `json:"duration"`
	Stipend     string   `json:"stipend"`
	Description string   `json:"description"`
	Skills      []string `json:"skills" validate:"dive,required"`
}
