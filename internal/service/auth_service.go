package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

// RegisterRequest is the owner sign-up form.
type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,strongpassword"`
	ShopName         string `json:"shopName" binding:"required"`
	ShopDescription  string `json:"shopDescription"`
	Address          string `json:"address"`
	Phone            string `json:"phone" binding:"required,phone10"`
	TelegramUsername string `json:"telegramUsername"`
}

// RegisterResult is returned after a successful sign-up.
type RegisterResult struct {
	User         *models.User  `json:"user"`
	Store        *models.Store `json:"store"`
	Instructions string        `json:"telegramInstructions"`
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Profile is the signed-in owner and their store.
type Profile struct {
	User  *models.User  `json:"user"`
	Store *models.Store `json:"store"`
}

// AuthService registers owners and issues session tokens.
type AuthService struct {
	users       UserStore
	stores      StoreStore
	tokens      *utils.JWTManager
	revoked     TokenRevoker
	countryCode string
	ownerBot    string
	cost        int
	compare     func(hash, password []byte) error

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, stores StoreStore, tokens *utils.JWTManager, revoked TokenRevoker, countryCode, ownerBot string) *AuthService {
	return &AuthService{
		users:       users,
		stores:      stores,
		tokens:      tokens,
		revoked:     revoked,
		countryCode: countryCode,
		ownerBot:    ownerBot,
		cost:        bcrypt.DefaultCost,
		compare:     bcrypt.CompareHashAndPassword,
	}
}

// Register creates a store and its owner. The password and phone rules are
// checked before anything is written.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if !utils.CheckPassword(req.Password).OK() {
		return nil, utils.ErrWeakPassword
	}
	if !utils.ValidLocalPhone(req.Phone) {
		return nil, utils.ErrInvalidPhone
	}
	email := normalizeEmail(req.Email)
	shopName := strings.TrimSpace(req.ShopName)
	if email == "" || shopName == "" {
		return nil, utils.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tgUser := strings.TrimPrefix(strings.TrimSpace(req.TelegramUsername), "@")
	store := &models.Store{
		Name:             shopName,
		Description:      strings.TrimSpace(req.ShopDescription),
		Address:          strings.TrimSpace(req.Address),
		Phone:            s.countryCode + req.Phone,
		TelegramUsername: tgUser,
	}
	user := &models.User{
		Email:            email,
		PasswordHash:     string(hash),
		Name:             shopName,
		Role:             models.RoleOwner,
		TelegramUsername: tgUser,
		IsActive:         true,
	}
	if err := s.users.RegisterOwner(ctx, store, user); err != nil {
		if errors.Is(err, utils.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register owner: %w", err)
	}

	log.Info().Str("store_id", store.ID).Str("user_id", user.ID).Msg("owner registered")
	return &RegisterResult{
		User:  user,
		Store: store,
		Instructions: fmt.Sprintf("Open Telegram, search for %s and press Start to receive order updates and daily reports.",
			s.ownerBot),
	}, nil
}

// Login checks the credentials and issues a token. Every failure is
// reported as utils.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			log.Error().Err(err).Msg("login lookup failed")
		}
		// Unknown emails pay the same bcrypt cost as wrong passwords.
		_ = s.compare(s.dummy(), []byte(password))
		return nil, utils.ErrInvalidCredentials
	}
	if s.compare([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, utils.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, utils.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Generate(user.ID, user.StoreID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Logout revokes the session's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, sess models.Session) error {
	if sess.TokenID == "" || s.revoked == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, sess.TokenID, sess.Remaining(time.Now()))
}

// Authenticate validates a token and returns its session. Revoked tokens
// are rejected with utils.ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Session, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return models.Session{}, utils.ErrInvalidToken
	}
	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return models.Session{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return models.Session{}, utils.ErrInvalidToken
		}
	}
	return models.Session{
		UserID:    claims.UserID,
		StoreID:   claims.StoreID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Me returns the session's user and store.
func (s *AuthService) Me(ctx context.Context, sess models.Session) (*Profile, error) {
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, user.StoreID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Store: store}, nil
}

// dummy is a hash at the configured cost that no password matches.
func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
		if err != nil {
			log.Error().Err(err).Msg("generate dummy hash")
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
