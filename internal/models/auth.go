package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims carried by API tokens
type Claims struct {
	User string `json:"user"` // User identifier
	Org  string `json:"org"`  // Organization (law firm) identifier
	jwt.RegisteredClaims
}
