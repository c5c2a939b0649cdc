package rest_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	shop "github.com/goliatone/go-shop"
	"github.com/goliatone/go-shop/payments"
)

type testConfig struct{}

func (testConfig) GetSigningKey() string              { return "test-signing-key" }
func (testConfig) GetSigningMethod() string           { return "HS256" }
func (testConfig) GetContextKey() string              { return "user" }
func (testConfig) GetAuthScheme() string              { return "Bearer" }
func (testConfig) GetIssuer() string                  { return "go-shop-test" }
func (testConfig) GetAccessTokenTTL() time.Duration   { return 5 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration  { return 7 * 24 * time.Hour }
func (testConfig) GetResetTokenTTL() time.Duration    { return time.Hour }
func (testConfig) GetBcryptCost() int                 { return 4 }

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

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) Create(ctx context.Context, product *shop.Product) (*shop.Product, error) {
	args := m.Called(ctx, product)
	if p := args.Get(0); p != nil {
		return p.(*shop.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProducts) GetByID(ctx context.Context, id string) (*shop.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*shop.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProducts) GetByTitle(ctx context.Context, title string) (*shop.Product, error) {
	args := m.Called(ctx, title)
	if p := args.Get(0); p != nil {
		return p.(*shop.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProducts) List(ctx context.Context, titleFilter string) ([]shop.Product, error) {
	args := m.Called(ctx, titleFilter)
	if p := args.Get(0); p != nil {
		return p.([]shop.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProducts) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReviews struct {
	mock.Mock
}

func (m *MockReviews) Create(ctx context.Context, review *shop.Review) (*shop.Review, error) {
	args := m.Called(ctx, review)
	if r := args.Get(0); r != nil {
		return r.(*shop.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviews) GetByID(ctx context.Context, id string) (*shop.Review, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*shop.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviews) List(ctx context.Context) ([]shop.Review, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]shop.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviews) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) Create(ctx context.Context, order *shop.Order) (*shop.Order, error) {
	args := m.Called(ctx, order)
	if o := args.Get(0); o != nil {
		return o.(*shop.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrders) List(ctx context.Context) ([]shop.Order, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]shop.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrders) AttachPaymentDetails(ctx context.Context, gatewayOrderID, method, email, upiTransactionID string) (*shop.Order, error) {
	args := m.Called(ctx, gatewayOrderID, method, email, upiTransactionID)
	if o := args.Get(0); o != nil {
		return o.(*shop.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRepositoryManager struct {
	users    *MockUsers
	products *MockProducts
	reviews  *MockReviews
	orders   *MockOrders
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		users:    &MockUsers{},
		products: &MockProducts{},
		reviews:  &MockReviews{},
		orders:   &MockOrders{},
	}
}

func (m *MockRepositoryManager) Validate() error          { return nil }
func (m *MockRepositoryManager) Users() shop.Users       { return m.users }
func (m *MockRepositoryManager) Products() shop.Products { return m.products }
func (m *MockRepositoryManager) Orders() shop.Orders     { return m.orders }
func (m *MockRepositoryManager) Reviews() shop.Reviews   { return m.reviews }

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

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (string, string, error) {
	args := m.Called(ctx, folder, filename, contentType, content)
	return args.String(0), args.String(1), args.Error(2)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*payments.GatewayOrder, error) {
	args := m.Called(ctx, amount, receipt)
	if o := args.Get(0); o != nil {
		return o.(*payments.GatewayOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) VerifyWebhook(body []byte, signature string) (*payments.PaymentDetails, error) {
	args := m.Called(body, signature)
	if d := args.Get(0); d != nil {
		return d.(*payments.PaymentDetails), args.Error(1)
	}
	return nil, args.Error(1)
}
