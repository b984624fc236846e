package store

// Key prefixes of the persisted state. Per-user keys append the user's email.
const (
	KeyCurrentUser        = "currentUser"
	PrefixUserInternships = "userInternships_"
	PrefixPostedListings  = "postedInternships_"
	PrefixApplications    = "applications_"
	PrefixAccounts        = "accounts_"
)

func UserInternshipsKey(email string) string { return PrefixUserInternships + email }
func PostedListingsKey(email string) string  { return PrefixPostedListings + email }
func ApplicationsKey(email string) string    { return PrefixApplications + email }
func AccountKey(email string) string         { return PrefixAccounts + email }
