package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload identifying the acting user.
type UserClaims struct {
	UserID   string `json:"userId"`
	Elevated bool   `json:"elevated,omitempty"`
	jwt.RegisteredClaims
}

// TokenRequest is the request body for issuing a user token.
type TokenRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// TokenResponse carries an issued user token.
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
