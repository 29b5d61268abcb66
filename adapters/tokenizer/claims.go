package tokenizer

import "github.com/golang-jwt/jwt/v5"

// ChallengeClaims combines standard claims with the sign-in network
type ChallengeClaims struct {
	jwt.RegisteredClaims
	NetworkID string `json:"net"`
}
