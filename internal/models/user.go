package models

// UserRecord is the profile returned by the TrackFilmes API.
// It is replaced wholesale after a profile update, never merged field by field.
type UserRecord struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birthDate,omitempty"`
}

// Session is the (token, user) pair representing an authenticated browser
// session. Token and User are set and cleared together; their joint presence
// means "logged in".
type Session struct {
	Token string      `json:"token"`
	User  *UserRecord `json:"user"`
}

// LoggedIn reports whether the session holds both a token and a user.
func (s Session) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the account creation payload. BirthDate is optional and
// omitted from the request body when empty.
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birthDate,omitempty"`
}

// ProfileUpdate is the profile edit payload.
type ProfileUpdate struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birthDate,omitempty"`
}

// PasswordChange is the password update payload.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
