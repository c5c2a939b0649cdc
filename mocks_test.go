package shop_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	shop "github.com/goliatone/go-shop"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, user *shop.User) (*shop.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*shop.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id string) (*shop.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*shop.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string, role shop.UserRole) (*shop.User, error) {
	args := m.Called(ctx, email, role)
	if u := args.Get(0); u != nil {
		return u.(*shop.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) ConsumeVerificationToken(ctx context.Context, token string, role shop.UserRole) (*shop.User, error) {
	args := m.Called(ctx, token, role)
	if u := args.Get(0); u != nil {
		return u.(*shop.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) SetResetToken(ctx context.Context, email string, role shop.UserRole, token string, expiresAt time.Time) (*shop.User, error) {
	args := m.Called(ctx, email, role, token, expiresAt)
	if u := args.Get(0); u != nil {
		return u.(*shop.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) ConsumeResetToken(ctx context.Context, token string, role shop.UserRole, passwordHash string) (*shop.User, error) {
	args := m.Called(ctx, token, role, passwordHash)
	if u := args.Get(0); u != nil {
		return u.(*shop.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) UpdateCart(ctx context.Context, userID string, cart shop.Cart) error {
	args := m.Called(ctx, userID, cart)
	return args.Error(0)
}

// MockRepositoryManager only backs users; catalog repositories are not
// exercised by the lifecycle commands.
type MockRepositoryManager struct {
	UsersRepo *MockUsers
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{UsersRepo: &MockUsers{}}
}

func (m *MockRepositoryManager) Validate() error          { return nil }
func (m *MockRepositoryManager) Users() shop.Users       { return m.UsersRepo }
func (m *MockRepositoryManager) Products() shop.Products { return nil }
func (m *MockRepositoryManager) Orders() shop.Orders     { return nil }
func (m *MockRepositoryManager) Reviews() shop.Reviews   { return nil }

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendAccountVerification(ctx context.Context, name, email, token string) error {
	args := m.Called(ctx, name, email, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, name, email, token string) error {
	args := m.Called(ctx, name, email, token)
	return args.Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueAccessToken(identity shop.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) IssueRefreshToken(identity shop.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (shop.AuthClaims, error) {
	args := m.Called(tokenString)
	if c := args.Get(0); c != nil {
		return c.(shop.AuthClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenService) GenerateOpaqueToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type testConfig struct {
	signingKey string
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey: "test-signing-key",
		accessTTL:  5 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
		issuer:     "go-shop-test",
	}
}

func (c testConfig) GetSigningKey() string             { return c.signingKey }
func (c testConfig) GetSigningMethod() string          { return "HS256" }
func (c testConfig) GetContextKey() string             { return "user" }
func (c testConfig) GetAuthScheme() string             { return "Bearer" }
func (c testConfig) GetIssuer() string                 { return c.issuer }
func (c testConfig) GetAccessTokenTTL() time.Duration  { return c.accessTTL }
func (c testConfig) GetRefreshTokenTTL() time.Duration { return c.refreshTTL }
func (c testConfig) GetResetTokenTTL() time.Duration   { return time.Hour }
func (c testConfig) GetBcryptCost() int                { return 4 }

func testUser() *shop.User {
	return &shop.User{
		ID:    "usr-1",
		Name:  "Pepe Rone",
		Email: "pepe@example.com",
		Role:  shop.RoleUser,
	}
}
