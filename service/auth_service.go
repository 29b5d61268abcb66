package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
	"github.com/layer-3/nearstore/wallet"
	"go.uber.org/zap"
)

// AuthService runs the wallet sign-in round-trip and keeps the session store
// in step with the wallet connection
type AuthService struct {
	tokenizer ports.Tokenizer
	store     ports.Store
	facade    *wallet.Facade
	wallet    *wallet.WalletConnection
	sessions  *SessionStore
	logger    *zap.Logger

	challengeTTL time.Duration

	// serializes wallet and session changes so they never disagree
	mu sync.Mutex
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tokenizer ports.Tokenizer,
	store ports.Store,
	facade *wallet.Facade,
	w *wallet.WalletConnection,
	sessions *SessionStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tokenizer:    tokenizer,
		store:        store,
		facade:       facade,
		wallet:       w,
		sessions:     sessions,
		logger:       logger,
		challengeTTL: 5 * time.Minute,
	}
}

// RequestSignIn returns the wallet URL the user should be redirected to.
// callbackURL receives the wallet's redirect with a signed state parameter.
func (s *AuthService) RequestSignIn(ctx context.Context, callbackURL string) (string, error) {
	now := time.Now()
	challenge := &core.Challenge{
		ID:        uuid.New().String(),
		NetworkID: s.facade.Config().NetworkID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.challengeTTL),
	}

	state, err := s.tokenizer.ChallengeToToken(challenge)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	successURL, err := withQuery(callbackURL, url.Values{"state": {state}})
	if err != nil {
		return "", err
	}
	failureURL, err := withQuery(callbackURL, url.Values{"state": {state}, "failed": {"1"}})
	if err != nil {
		return "", err
	}

	req, err := s.wallet.RequestSignIn(ctx, successURL, failureURL)
	if err != nil {
		return "", err
	}

	s.logger.Info("sign-in requested", zap.String("challenge_id", challenge.ID), zap.String("public_key", req.PublicKey))
	return req.URL, nil
}

// CompleteSignIn verifies the state the wallet echoed back, connects the
// account and records the new session. A state is accepted once, and only
// together with the public key of a pending sign-in.
func (s *AuthService) CompleteSignIn(ctx context.Context, state, accountID, publicKey string, allKeys []string) (core.SessionStatus, error) {
	challenge, err := s.tokenizer.TokenToChallenge(state)
	if err != nil {
		return core.SessionStatus{}, fmt.Errorf("invalid sign-in state: %w", err)
	}
	if challenge.NetworkID != s.facade.Config().NetworkID {
		return core.SessionStatus{}, fmt.Errorf("%w: issued for network %q", core.ErrInvalidChallenge, challenge.NetworkID)
	}
	if publicKey == "" {
		return core.SessionStatus{}, fmt.Errorf("%w: wallet returned no public key", core.ErrInvalidChallenge)
	}

	ttl := time.Until(challenge.ExpiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	fresh, err := s.store.InvalidateToken(ctx, challenge.ID, ttl)
	if err != nil {
		return core.SessionStatus{}, err
	}
	if !fresh {
		return core.SessionStatus{}, core.ErrTokenInvalidated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wallet.CompleteSignIn(ctx, accountID, publicKey, allKeys); err != nil {
		return core.SessionStatus{}, err
	}

	status := core.SessionStatus{
		IsSignedIn: true,
		AccountID:  accountID,
		AllKeys:    allKeys,
	}
	// a missing balance does not block sign-in
	if balance, err := s.facade.GetBalance(ctx, s.wallet); err != nil {
		s.logger.Warn("failed to load balance after sign-in", zap.String("account_id", accountID), zap.Error(err))
	} else {
		status.Balance = balance
	}

	if err := s.sessions.SetSession(ctx, status); err != nil {
		return core.SessionStatus{}, err
	}

	s.logger.Info("signed in", zap.String("account_id", accountID))
	return s.sessions.Status(), nil
}

// RefreshBalance reloads the signed-in account's balance into the session
func (s *AuthService) RefreshBalance(ctx context.Context) (core.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.facade.GetBalance(ctx, s.wallet)
	if err != nil {
		return core.SessionStatus{}, err
	}

	status := s.sessions.Status()
	status.Balance = balance
	status.UpdatedAt = time.Time{}
	if err := s.sessions.SetSession(ctx, status); err != nil {
		return core.SessionStatus{}, err
	}
	return s.sessions.Status(), nil
}

// SignOut disconnects the wallet and marks the session signed out
func (s *AuthService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID := s.wallet.AccountID()
	if err := s.wallet.SignOut(ctx); err != nil {
		return err
	}
	if err := s.sessions.SignOut(ctx); err != nil {
		return err
	}

	s.logger.Info("signed out", zap.String("account_id", accountID))
	return nil
}

// Sync reconciles the session with the wallet after a restart: a session
// that claims to be signed in without wallet auth data is signed out.
func (s *AuthService) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions.Status().IsSignedIn && !s.wallet.IsSignedIn() {
		s.logger.Info("wallet auth data missing, signing session out")
		return s.sessions.SignOut(ctx)
	}
	return nil
}

func withQuery(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid callback url %q: %w", rawURL, err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
