package model

// ApplicationStatus is the recruiter-side review status of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// Applicant is the snapshot of the student taken when they applied.
type Applicant struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Skills []string `json:"skills,omitempty"`
}

// Application links a student to an externally-posted listing.
type Application struct {
	ID           string            `json:"id"`
	ListingID    string            `json:"listingId"`
	ListingTitle string            `json:"listingTitle"`
	Company      string            `json:"company"`
	Applicant    Applicant         `json:"applicant"`
	AppliedDate  string            `json:"appliedDate"`
	Status       ApplicationStatus `json:"status"`
}
