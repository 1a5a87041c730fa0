package models

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// RateLimitResponse: тело ответа 429.
type RateLimitResponse struct {
	Error     string `json:"error"`
	ResetTime string `json:"resetTime"`
}
