package user

import (
	"context"
	"testing"
	"time"

	"github.com/Minister-Isaac/Vtu-Backend/internal/account"
	"github.com/Minister-Isaac/Vtu-Backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWithAccount(ctx context.Context, u User) (*User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateLastLogin(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) StoreRefreshToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRepository) RefreshTokenValid(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MockAccountRepository is a mock implementation of account.Repository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID int) (*account.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, userID int, amount int64, txType, reference string, metadata []byte) (*account.Transaction, error) {
	args := m.Called(ctx, userID, amount, txType, reference, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Transaction), args.Error(1)
}

func (m *MockAccountRepository) ListTransactions(ctx context.Context, userID, limit, offset int) ([]account.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Transaction), args.Error(1)
}

const testSecret = "test-secret"

func TestService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           RegisterRequest
		setupMock     func(*MockRepository)
		expectedError error
	}{
		{
			name: "successful registration",
			req: RegisterRequest{
				FullName: "Test User",
				Username: "tester",
				Email:    "test@example.com",
				Phone:    "08031234567",
				Address:  "12 Marina Rd, Lagos",
				Password: "password123",
			},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "test@example.com").Return(false, nil)
				m.On("UsernameExists", mock.Anything, "tester").Return(false, nil)
				m.On("CreateWithAccount", mock.Anything, mock.MatchedBy(func(u User) bool {
					return u.Username == "tester" && u.PasswordHash != "" && u.PasswordHash != "password123"
				})).Return(&User{
					ID:       1,
					FullName: "Test User",
					Username: "tester",
					Email:    "test@example.com",
				}, nil)
			},
		},
		{
			name: "email already exists",
			req: RegisterRequest{
				FullName: "Test User",
				Username: "tester",
				Email:    "existing@example.com",
				Phone:    "08031234567",
				Address:  "12 Marina Rd, Lagos",
				Password: "password123",
			},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "existing@example.com").Return(true, nil)
			},
			expectedError: ErrEmailExists,
		},
		{
			name: "username already exists",
			req: RegisterRequest{
				FullName: "Test User",
				Username: "taken",
				Email:    "test@example.com",
				Phone:    "08031234567",
				Address:  "12 Marina Rd, Lagos",
				Password: "password123",
			},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "test@example.com").Return(false, nil)
				m.On("UsernameExists", mock.Anything, "taken").Return(true, nil)
			},
			expectedError: ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setupMock(mockRepo)

			service := NewService(mockRepo, new(MockAccountRepository), nil, testSecret)
			created, err := service.Register(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, created)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, created)
				assert.Equal(t, tt.req.Username, created.Username)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	t.Run("successful login stores refresh token", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("FindByUsername", mock.Anything, "tester").Return(&User{
			ID:           1,
			Username:     "tester",
			PasswordHash: hash,
		}, nil)
		mockRepo.On("StoreRefreshToken", mock.Anything, 1, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
		mockRepo.On("UpdateLastLogin", mock.Anything, 1).Return(nil)

		service := NewService(mockRepo, new(MockAccountRepository), nil, testSecret)
		u, accessToken, refreshToken, err := service.Login(context.Background(), LoginRequest{
			Username: "tester",
			Password: "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, u.ID)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.NotEqual(t, accessToken, refreshToken)

		claims, err := auth.ValidateToken(accessToken, testSecret)
		assert.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("FindByUsername", mock.Anything, "tester").Return(&User{
			ID:           1,
			Username:     "tester",
			PasswordHash: hash,
		}, nil)

		service := NewService(mockRepo, new(MockAccountRepository), nil, testSecret)
		u, accessToken, _, err := service.Login(context.Background(), LoginRequest{
			Username: "tester",
			Password: "wrongpassword",
		})

		assert.ErrorIs(t, err, ErrInvalidPassword)
		assert.Nil(t, u)
		assert.Empty(t, accessToken)
		mockRepo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown username", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, ErrUserNotFound)

		service := NewService(mockRepo, new(MockAccountRepository), nil, testSecret)
		u, _, _, err := service.Login(context.Background(), LoginRequest{
			Username: "ghost",
			Password: "password123",
		})

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, u)
	})
}

func TestService_Refresh(t *testing.T) {
	t.Run("valid refresh token", func(t *testing.T) {
		_, refreshToken, err := auth.GenerateTokens(1, "tester", testSecret)
		assert.NoError(t, err)

		mockRepo := new(MockRepository)
		mockRepo.On("RefreshTokenValid", mock.Anything, refreshToken).Return(true, nil)
		mockRepo.On("FindByID", mock.Anything, 1).Return(&User{ID: 1, Username: "tester"}, nil)

		service := NewService(mockRepo, new(MockAccountRepository), nil, testSecret)
		accessToken, u, err := service.Refresh(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.Equal(t, "tester", u.Username)

		claims, err := auth.ValidateToken(accessToken, testSecret)
		assert.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		_, refreshToken, err := auth.GenerateTokens(1, "tester", testSecret)
		assert.NoError(t, err)

		mockRepo := new(MockRepository)
		mockRepo.On("RefreshTokenValid", mock.Anything, refreshToken).Return(false, nil)

		service := NewService(mockRepo, new(MockAccountRepository), nil, testSecret)
		accessToken, u, err := service.Refresh(context.Background(), refreshToken)

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		assert.Empty(t, accessToken)
		assert.Nil(t, u)
	})

	t.Run("access token rejected", func(t *testing.T) {
		accessToken, _, err := auth.GenerateTokens(1, "tester", testSecret)
		assert.NoError(t, err)

		mockRepo := new(MockRepository)
		service := NewService(mockRepo, new(MockAccountRepository), nil, testSecret)
		_, _, err = service.Refresh(context.Background(), accessToken)

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		mockRepo.AssertNotCalled(t, "RefreshTokenValid", mock.Anything, mock.Anything)
	})
}

func TestService_Profile(t *testing.T) {
	mockRepo := new(MockRepository)
	mockAccounts := new(MockAccountRepository)
	mockRepo.On("FindByID", mock.Anything, 1).Return(&User{ID: 1, Username: "tester"}, nil)
	mockAccounts.On("GetByUserID", mock.Anything, 1).Return(&account.Account{
		ID:            5,
		UserID:        1,
		WalletBalance: 2500,
	}, nil)

	service := NewService(mockRepo, mockAccounts, nil, testSecret)
	u, a, err := service.Profile(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "tester", u.Username)
	assert.Equal(t, int64(2500), a.WalletBalance)
}
