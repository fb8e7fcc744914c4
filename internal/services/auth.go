package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"creatorsite/internal/metrics"
	"creatorsite/internal/session"
	"creatorsite/internal/util"
)

type claimsKey struct{}

// WithClaims stores validated token claims in ctx.
func WithClaims(ctx context.Context, claims *util.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*util.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*util.Claims)
	return claims, ok
}

// LoginPayload is the dashboard login form.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// MeResult describes the signed-in operator.
type MeResult struct {
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
}

// MessageResult is a plain acknowledgement.
type MessageResult struct {
	Message string `json:"message"`
}

// AuthService guards the dashboard with a single operator account.
type AuthService struct {
	tokens       *util.TokenManager
	revoker      session.Revoker
	username     string
	passwordHash string
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(tokens *util.TokenManager, revoker session.Revoker, username, passwordHash string, logger *zap.Logger) *AuthService {
	return &AuthService{
		tokens:       tokens,
		revoker:      revoker,
		username:     username,
		passwordHash: passwordHash,
		logger:       logger.Named("auth"),
	}
}

// Login implements the login method
func (s *AuthService) Login(ctx context.Context, p *LoginPayload) (*LoginResult, error) {
	username := strings.TrimSpace(p.Username)
	password := strings.TrimSpace(p.Password)

	s.logger.Info("Login attempt", zap.String("username", username))

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := s.passwordHash != "" && util.CheckPasswordHash(password, s.passwordHash)
	if !userOK || !passOK {
		s.logger.Info("Login failed: incorrect username or password", zap.String("username", username))
		metrics.RecordAuthAttempt(false)
		return nil, Unauthorized("incorrect username or password")
	}

	token, _, err := s.tokens.GenerateToken(username)
	if err != nil {
		s.logger.Error("Login failed: token generation error", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Login successful", zap.String("username", username))
	metrics.RecordAuthAttempt(true)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.Expiry() / time.Second),
	}, nil
}

// Authenticate validates a bearer token and returns a context carrying its
// claims.
func (s *AuthService) Authenticate(ctx context.Context, token string) (context.Context, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, Unauthorized("token expired")
		}
		return nil, Unauthorized("invalid or expired token")
	}
	if claims.Username != s.username {
		return nil, Unauthorized("unknown user")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
		return nil, err
	}
	if revoked {
		return nil, Unauthorized("token has been revoked")
	}

	return WithClaims(ctx, claims), nil
}

// Logout revokes the current token until it would have expired.
func (s *AuthService) Logout(ctx context.Context) (*MessageResult, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, Unauthorized("not authenticated")
	}

	if err := s.revoker.Revoke(ctx, claims.ID, s.tokens.Remaining(claims)); err != nil {
		s.logger.Error("Logout failed: revocation error", zap.String("username", claims.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Logout", zap.String("username", claims.Username))
	return &MessageResult{Message: "Successfully logged out"}, nil
}

// Me implements the me method
func (s *AuthService) Me(ctx context.Context) (*MeResult, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, Unauthorized("not authenticated")
	}
	res := &MeResult{Username: claims.Username}
	if claims.ExpiresAt != nil {
		res.ExpiresAt = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	return res, nil
}
