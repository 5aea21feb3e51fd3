package users

// Role distinguishes administrators from regular analysts.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
)

// User is a credential store record. SecretHash holds a bcrypt hash of the
// user's secret and never leaves the server.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email"`
	SecretHash string `json:"secretHash,omitempty"`
	Role       Role   `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayFirstName returns the first name, falling back to the username when
// the profile has no name parts. Used for uploader provenance.
func (u User) DisplayFirstName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Profile carries the fields of a new user record.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Secret    string
}

// ProfileUpdate carries a partial profile update; nil fields are untouched.
type ProfileUpdate struct {
	Username  *string
	FirstName *string
	LastName  *string
	Email     *string
}
