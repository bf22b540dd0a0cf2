package handler

import "github.com/teste-tivit/secure-api/internal/core/domain"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginDetailResponse is the envelope returned by POST /auth/login.
type loginDetailResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    *tokenResponse   `json:"data,omitempty"`
	User    *domain.Identity `json:"user,omitempty"`
}

// apiResponse is the envelope returned by the protected routes.
type apiResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	StoredID   string `json:"stored_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
