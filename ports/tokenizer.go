package ports

import "github.com/layer-3/nearstore/core"

// Tokenizer converts sign-in challenges to and from opaque state tokens
type Tokenizer interface {
	ChallengeToToken(challenge *core.Challenge) (string, error)
	TokenToChallenge(token string) (*core.Challenge, error)
}
