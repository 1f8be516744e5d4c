package user

import (
	"context"
	"errors"
	"time"

	"github.com/Minister-Isaac/Vtu-Backend/internal/account"
	"github.com/Minister-Isaac/Vtu-Backend/internal/auth"
	"github.com/Minister-Isaac/Vtu-Backend/internal/logger"
	"github.com/Minister-Isaac/Vtu-Backend/internal/receipt"
)

var (
	ErrEmailExists         = errors.New("email already exists")
	ErrUsernameExists      = errors.New("username already exists")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (string, *User, error)
	Profile(ctx context.Context, userID int) (*User, *account.Account, error)
}

type service struct {
	repo      Repository
	accounts  account.Repository
	receipts  *receipt.Service
	jwtSecret string
}

func NewService(repo Repository, accounts account.Repository, receipts *receipt.Service, jwtSecret string) Service {
	return &service{
		repo:      repo,
		accounts:  accounts,
		receipts:  receipts,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateWithAccount(ctx, User{
		FullName:         req.FullName,
		Username:         req.Username,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		ReferralUsername: req.ReferralUsername,
		PasswordHash:     passwordHash,
	})
	if err != nil {
		return nil, err
	}

	if s.receipts != nil {
		if err := s.receipts.SendWelcome(ctx, created.Email, created.FullName); err != nil {
			logger.Errorf("Failed to queue welcome email for %s: %v", created.Username, err)
		}
	}

	return created, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", "", err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidPassword
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Username, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	expiresAt := time.Now().Add(auth.RefreshTokenTTL)
	if err := s.repo.StoreRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
		return nil, "", "", err
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		logger.Errorf("Failed to update last login for %s: %v", u.Username, err)
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, *User, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, ErrInvalidRefreshToken
	}

	valid, err := s.repo.RefreshTokenValid(ctx, refreshToken)
	if err != nil {
		return "", nil, err
	}
	if !valid {
		return "", nil, ErrInvalidRefreshToken
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	accessToken, err := auth.GenerateAccessToken(u.ID, u.Username, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return accessToken, u, nil
}

func (s *service) Profile(ctx context.Context, userID int) (*User, *account.Account, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	a, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return u, a, nil
}
