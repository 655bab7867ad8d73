// File: models/user.go
package models

// ----------------------- session model -----------------------

// LoginState is the body of GET /api/login.
type LoginState struct {
	LoggedIn bool   `json:"logged_in"`
	Commit   string `json:"commit,omitempty"`
}

// LoginRequest is forwarded to POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ----------------------- user model -----------------------

// User is the profile record of the upstream API.
type User struct {
	ID        int    `json:"id,omitempty"`
	Username  string `json:"username" validate:"required,min=2,max=32"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UserEnvelope wraps a user in upstream responses.
type UserEnvelope struct {
	User *User `json:"user"`
}

// SignupRequest is forwarded to POST /api/users.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=32"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

// Availability is the body of POST /api/users/has/{username,email}.
type Availability struct {
	Exists bool `json:"exists"`
}

// VerifyResult is the body of GET /api/verify/:token. First is nil when the
// upstream could not tell.
type VerifyResult struct {
	First *bool `json:"first"`
}

// QRLookup is the body of GET /api/qr/:token.
type QRLookup struct {
	Ticket *Ticket `json:"ticket"`
	Owner  *User   `json:"owner"`
}

// ----------------------- team model -----------------------

// Team is a tournament team.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Game      string `json:"game"`
	CaptainID int    `json:"captain_id,omitempty"`
	Members   []User `json:"members,omitempty"`
}

// TeamList is the body of GET /api/teams.
type TeamList struct {
	Teams []Team `json:"teams"`
}

// TeamRequest is forwarded to POST /api/teams.
type TeamRequest struct {
	Name string `json:"name" validate:"required,max=64"`
	Game string `json:"game" validate:"required"`
}
