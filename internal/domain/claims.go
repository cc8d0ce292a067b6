package domain

import "github.com/golang-jwt/jwt/v5"

// Claims do bearer token aceito nas rotas /v1
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
