package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the JWT claims carried in the session cookie
type SessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SignUpRequest is the request body for account creation
type SignUpRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	JobTitle   string `json:"jobTitle,omitempty"`
	Seniority  string `json:"seniority,omitempty"`
	Department string `json:"department,omitempty"`
	Location   string `json:"location,omitempty"`
}

// SignInRequest is the request body for sign-in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse mirrors the original action results
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
