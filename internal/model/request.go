package model

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the flat body the browser client expects from both
// signup and login.
type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
