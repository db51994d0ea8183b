package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avoronova/bankledger/internal/logger"
	"github.com/avoronova/bankledger/internal/models"
)

// Login and password constraints
const (
	minLoginLen    = 6
	minPasswordLen = 8
)

// PasswordHasher defines the password hashing capability.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(password string, digest []byte) bool
}

// TokenIssuer issues session tokens for authenticated clients.
type TokenIssuer interface {
	Issue(ctx context.Context, clientID uuid.UUID) (string, error)
}

// AuthService handles registration and login. Registration creates the
// client and its first account in one Unit-of-Work scope, so a client never
// exists without an account.
type AuthService struct {
	uow     UnitOfWork
	clients ClientRepository // connection-bound, for reads outside a scope
	hasher  PasswordHasher
	tokens  TokenIssuer
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(uow UnitOfWork, clients ClientRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		uow:     uow,
		clients: clients,
		hasher:  hasher,
		tokens:  tokens,
	}
}

// Register validates credentials, stores the new client and provisions its
// first zero-balance account. The returned client carries identity fields only.
func (svc *AuthService) Register(ctx context.Context, login, password string) (*models.Client, error) {
	if len(login) < minLoginLen {
		return nil, models.ErrInvalidLogin
	}
	if len(password) < minPasswordLen || strings.IndexFunc(password, unicode.IsSpace) >= 0 {
		return nil, models.ErrInvalidPassword
	}

	digest, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "error", err)
		return nil, err
	}

	client := &models.Client{Login: login, PasswordHash: digest}
	err = svc.uow.Do(ctx, func(r Repositories) error {
		existing, err := r.Clients.GetByLogin(ctx, login)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.ErrLoginTaken
		}

		if err := r.Clients.Add(ctx, client); err != nil {
			return err
		}

		account := &models.Account{ClientID: client.ID, Balance: decimal.Zero}
		return r.Accounts.Add(ctx, account)
	})
	if err != nil {
		logger.Log.Errorw("registration failed", "login", login, "error", err)
		return nil, err
	}

	return &models.Client{ID: client.ID, Login: client.Login}, nil
}

// Login authenticates a client by login and password. The returned client
// carries identity fields only, never the digest.
func (svc *AuthService) Login(ctx context.Context, login, password string) (*models.Client, error) {
	if len(login) < minLoginLen {
		return nil, models.ErrInvalidLogin
	}

	client, err := svc.clients.GetByLogin(ctx, login)
	if err != nil {
		logger.Log.Errorw("failed to get client", "login", login, "error", err)
		return nil, err
	}
	if client == nil {
		return nil, models.ErrClientNotFound
	}

	if !svc.hasher.Verify(password, client.PasswordHash) {
		logger.Log.Infow("invalid credentials", "login", login)
		return nil, models.ErrInvalidCredentials
	}

	return &models.Client{ID: client.ID, Login: client.Login}, nil
}

// IssueToken returns a signed session token for the client.
func (svc *AuthService) IssueToken(ctx context.Context, clientID uuid.UUID) (string, error) {
	tok, err := svc.tokens.Issue(ctx, clientID)
	if err != nil {
		logger.Log.Errorw("failed to issue token", "client_id", clientID, "error", err)
		return "", err
	}
	return tok, nil
}
