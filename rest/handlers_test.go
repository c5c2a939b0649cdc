package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	shop "github.com/goliatone/go-shop"
	"github.com/goliatone/go-shop/payments"
	"github.com/goliatone/go-shop/repository"
	"github.com/goliatone/go-shop/rest"
)

type testEnv struct {
	server  *rest.Server
	repo    *MockRepositoryManager
	mailer  *MockMailer
	files   *MockFileStore
	gateway *MockGateway
	tokens  shop.TokenService
	hasher  *shop.Hasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig{}
	repo := NewMockRepositoryManager()
	mailer := &MockMailer{}
	files := &MockFileStore{}
	gateway := &MockGateway{}

	tokens := shop.NewTokenService(cfg, nil)
	hasher := shop.NewHasher(cfg.GetBcryptCost())

	server := rest.New(rest.Deps{
		Config:        cfg,
		Repo:          repo,
		Auth:          shop.NewAuthenticator(repo, tokens, hasher),
		Tokens:        tokens,
		Register:      shop.NewRegisterUserHandler(repo, tokens, hasher, mailer),
		Verify:        shop.NewVerifyAccountHandler(repo),
		ResetInit:     shop.NewInitializePasswordResetHandler(repo, tokens, mailer, time.Hour),
		ResetFinalize: shop.NewFinalizePasswordResetHandler(repo, hasher),
		Files:         files,
		Gateway:       gateway,
	})

	return &testEnv{
		server:  server,
		repo:    repo,
		mailer:  mailer,
		files:   files,
		gateway: gateway,
		tokens:  tokens,
		hasher:  hasher,
	}
}

func (e *testEnv) accessToken(t *testing.T, role shop.UserRole) string {
	t.Helper()

	token, err := e.tokens.IssueAccessToken(shop.NewUserIdentity(&shop.User{
		ID:    "usr-1",
		Name:  "Test User",
		Email: "user@example.com",
		Role:  role,
	}))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, e *testEnv, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := e.server.App().Test(req, 5000)
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	return res, decoded
}

func TestSignup(t *testing.T) {
	t.Run("creates the account", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("Create", mock.Anything, mock.AnythingOfType("*shop.User")).
			Return(&shop.User{ID: "usr-1", Name: "Pepe Rone", Email: "pepe@example.com"}, nil)
		e.mailer.On("SendAccountVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Maybe()

		res, body := doJSON(t, e, http.MethodPost, "/user/signup", map[string]any{
			"name":     "Pepe Rone",
			"email":    "pepe@example.com",
			"password": "super-secret-pw",
		}, "")

		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, false, body["error"])
		e.repo.users.AssertExpectations(t)
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		e := newTestEnv(t)

		res, body := doJSON(t, e, http.MethodPost, "/user/signup", map[string]any{
			"name":     "Pepe Rone",
			"email":    "not-an-email",
			"password": "super-secret-pw",
		}, "")

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, true, body["error"])
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("Create", mock.Anything, mock.AnythingOfType("*shop.User")).
			Return(nil, shop.ErrDuplicateEmail)

		res, body := doJSON(t, e, http.MethodPost, "/user/signup", map[string]any{
			"name":     "Pepe Rone",
			"email":    "pepe@example.com",
			"password": "super-secret-pw",
		}, "")

		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Equal(t, shop.TextCodeDuplicateEmail, body["code"])
	})
}

func TestLogin(t *testing.T) {
	hash := func(t *testing.T, e *testEnv, pw string) string {
		h, err := e.hasher.HashPassword(pw)
		require.NoError(t, err)
		return h
	}

	t.Run("returns token pair", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("GetByEmail", mock.Anything, "pepe@example.com", shop.RoleUser).
			Return(&shop.User{
				ID:           "usr-1",
				Name:         "Pepe Rone",
				Email:        "pepe@example.com",
				PasswordHash: hash(t, e, "super-secret-pw"),
				Role:         shop.RoleUser,
			}, nil)

		res, body := doJSON(t, e, http.MethodPost, "/user/login", map[string]any{
			"email":    "pepe@example.com",
			"password": "super-secret-pw",
		}, "")

		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.NotEmpty(t, body["accessToken"])
		assert.NotEmpty(t, body["refreshToken"])
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("GetByEmail", mock.Anything, "nobody@example.com", shop.RoleUser).
			Return(nil, shop.ErrIdentityNotFound)
		e.repo.users.On("GetByEmail", mock.Anything, "pepe@example.com", shop.RoleUser).
			Return(&shop.User{
				ID:           "usr-1",
				Email:        "pepe@example.com",
				PasswordHash: hash(t, e, "super-secret-pw"),
				Role:         shop.RoleUser,
			}, nil)

		res1, body1 := doJSON(t, e, http.MethodPost, "/user/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "whatever-pw",
		}, "")
		res2, body2 := doJSON(t, e, http.MethodPost, "/user/login", map[string]any{
			"email":    "pepe@example.com",
			"password": "wrong-password",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, res1.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)
		assert.Equal(t, body1["message"], body2["message"])
	})
}

func TestRefresh(t *testing.T) {
	t.Run("issues a new access token", func(t *testing.T) {
		e := newTestEnv(t)
		refresh, err := e.tokens.IssueRefreshToken(shop.NewUserIdentity(&shop.User{
			ID: "usr-1", Name: "Pepe", Email: "pepe@example.com", Role: shop.RoleUser,
		}))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/user/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		res, err := e.server.App().Test(req, 5000)
		require.NoError(t, err)

		body := map[string]any{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.NotEmpty(t, body["accessToken"])
		assert.Equal(t, refresh, body["refreshToken"])
	})

	t.Run("rejects an access token", func(t *testing.T) {
		e := newTestEnv(t)
		access := e.accessToken(t, shop.RoleUser)

		req := httptest.NewRequest(http.MethodGet, "/user/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		res, err := e.server.App().Test(req, 5000)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		e := newTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/user/refresh", nil)
		res, err := e.server.App().Test(req, 5000)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestVerifyAccount(t *testing.T) {
	t.Run("consumes the token", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("ConsumeVerificationToken", mock.Anything, "tok-123", shop.RoleUser).
			Return(&shop.User{ID: "usr-1", Email: "pepe@example.com", Verified: true}, nil)

		res, body := doJSON(t, e, http.MethodPost, "/user/verify-account/tok-123", nil, "")

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, false, body["error"])
	})

	t.Run("used or unknown token is not found", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("ConsumeVerificationToken", mock.Anything, "tok-gone", shop.RoleUser).
			Return(nil, shop.ErrVerificationTokenInvalid)

		res, _ := doJSON(t, e, http.MethodPost, "/user/verify-account/tok-gone", nil, "")

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestResetPasswordRequest(t *testing.T) {
	t.Run("acknowledges known and unknown emails identically", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("SetResetToken", mock.Anything, "pepe@example.com", shop.RoleUser, mock.Anything, mock.Anything).
			Return(&shop.User{ID: "usr-1", Name: "Pepe", Email: "pepe@example.com"}, nil)
		e.repo.users.On("SetResetToken", mock.Anything, "nobody@example.com", shop.RoleUser, mock.Anything, mock.Anything).
			Return(nil, shop.ErrIdentityNotFound)
		e.mailer.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Maybe()

		res1, body1 := doJSON(t, e, http.MethodPost, "/user/reset-password", map[string]any{
			"email": "pepe@example.com",
		}, "")
		res2, body2 := doJSON(t, e, http.MethodPost, "/user/reset-password", map[string]any{
			"email": "nobody@example.com",
		}, "")

		assert.Equal(t, http.StatusOK, res1.StatusCode)
		assert.Equal(t, http.StatusOK, res2.StatusCode)
		assert.Equal(t, body1["message"], body2["message"])
	})

	t.Run("rate limits repeated requests", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("SetResetToken", mock.Anything, "spam@example.com", shop.RoleUser, mock.Anything, mock.Anything).
			Return(nil, shop.ErrIdentityNotFound)

		for i := 0; i < 3; i++ {
			res, _ := doJSON(t, e, http.MethodPost, "/user/reset-password", map[string]any{
				"email": "spam@example.com",
			}, "")
			require.Equal(t, http.StatusOK, res.StatusCode, "request %d should pass", i+1)
		}

		res, body := doJSON(t, e, http.MethodPost, "/user/reset-password", map[string]any{
			"email": "spam@example.com",
		}, "")

		assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
		assert.Equal(t, shop.TextCodeTooManyRequests, body["code"])
	})
}

func TestResetPasswordFinalize(t *testing.T) {
	t.Run("updates the password", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("ConsumeResetToken", mock.Anything, "tok-123", shop.RoleUser, mock.AnythingOfType("string")).
			Return(&shop.User{ID: "usr-1", Email: "pepe@example.com"}, nil)

		res, _ := doJSON(t, e, http.MethodPost, "/user/reset-password/tok-123", map[string]any{
			"password": "brand-new-pw",
		}, "")

		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("expired or consumed token is not found", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.users.On("ConsumeResetToken", mock.Anything, "tok-old", shop.RoleUser, mock.AnythingOfType("string")).
			Return(nil, shop.ErrResetTokenInvalid)

		res, _ := doJSON(t, e, http.MethodPost, "/user/reset-password/tok-old", map[string]any{
			"password": "brand-new-pw",
		}, "")

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestProducts(t *testing.T) {
	product := &shop.Product{
		ID:    "prd-1",
		Title: "Atomic Habits",
		Price: shop.Price{OriginalPrice: 599, OfferPrice: 499},
	}

	t.Run("list is public", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.products.On("List", mock.Anything, "habits").
			Return([]shop.Product{*product}, nil)

		res, body := doJSON(t, e, http.MethodGet, "/product/get-products?title=habits", nil, "")

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Len(t, body["products"], 1)
	})

	t.Run("create requires admin", func(t *testing.T) {
		e := newTestEnv(t)

		res, _ := doJSON(t, e, http.MethodPost, "/product/create", map[string]any{
			"title": "Atomic Habits",
		}, e.accessToken(t, shop.RoleUser))

		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("create rejects duplicate titles", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.products.On("GetByTitle", mock.Anything, "Atomic Habits").
			Return(product, nil)

		res, _ := doJSON(t, e, http.MethodPost, "/product/create", map[string]any{
			"title":       "Atomic Habits",
			"description": "Tiny changes, remarkable results",
			"category":    shop.CategoryPersonalDevelopment,
			"price":       map[string]any{"originalPrice": 599, "offerPrice": 499},
		}, e.accessToken(t, shop.RoleAdmin))

		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("create persists the product", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.products.On("GetByTitle", mock.Anything, "Atomic Habits").
			Return(nil, repository.ErrProductNotFound)
		e.repo.products.On("Create", mock.Anything, mock.AnythingOfType("*shop.Product")).
			Return(product, nil)

		res, body := doJSON(t, e, http.MethodPost, "/product/create", map[string]any{
			"title":       "Atomic Habits",
			"description": "Tiny changes, remarkable results",
			"category":    shop.CategoryPersonalDevelopment,
			"price":       map[string]any{"originalPrice": 599, "offerPrice": 499},
		}, e.accessToken(t, shop.RoleAdmin))

		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.NotNil(t, body["product"])
		e.repo.products.AssertExpectations(t)
	})

	t.Run("delete requires admin", func(t *testing.T) {
		e := newTestEnv(t)

		res, _ := doJSON(t, e, http.MethodDelete, "/product/delete-by-id", map[string]any{
			"id": "prd-1",
		}, e.accessToken(t, shop.RoleUser))

		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.products.On("Delete", mock.Anything, "prd-1").Return(nil)

		res, _ := doJSON(t, e, http.MethodDelete, "/product/delete-by-id", map[string]any{
			"id": "prd-1",
		}, e.accessToken(t, shop.RoleAdmin))

		assert.Equal(t, http.StatusOK, res.StatusCode)
	})
}

func TestReviews(t *testing.T) {
	t.Run("create requires a bearer token", func(t *testing.T) {
		e := newTestEnv(t)

		res, _ := doJSON(t, e, http.MethodPost, "/review/create-review", map[string]any{
			"reviewDescription": "Great read",
			"reviewOfProduct":   "prd-1",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("create attaches the session user", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.products.On("GetByID", mock.Anything, "prd-1").
			Return(&shop.Product{ID: "prd-1"}, nil)
		e.repo.reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *shop.Review) bool {
			return r.UserID == "usr-1" && r.ProductID == "prd-1"
		})).Return(&shop.Review{ID: "rev-1", UserID: "usr-1", ProductID: "prd-1"}, nil)

		res, _ := doJSON(t, e, http.MethodPost, "/review/create-review", map[string]any{
			"reviewDescription": "Great read",
			"reviewOfProduct":   "prd-1",
		}, e.accessToken(t, shop.RoleUser))

		assert.Equal(t, http.StatusCreated, res.StatusCode)
		e.repo.reviews.AssertExpectations(t)
	})

	t.Run("create rejects unknown products", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.products.On("GetByID", mock.Anything, "prd-missing").
			Return(nil, repository.ErrProductNotFound)

		res, _ := doJSON(t, e, http.MethodPost, "/review/create-review", map[string]any{
			"reviewDescription": "Great read",
			"reviewOfProduct":   "prd-missing",
		}, e.accessToken(t, shop.RoleUser))

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestOrders(t *testing.T) {
	t.Run("list requires admin", func(t *testing.T) {
		e := newTestEnv(t)

		res, _ := doJSON(t, e, http.MethodGet, "/order/get-orders", nil, e.accessToken(t, shop.RoleUser))

		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("list returns orders", func(t *testing.T) {
		e := newTestEnv(t)
		e.repo.orders.On("List", mock.Anything).
			Return([]shop.Order{{ID: "ord-1"}}, nil)

		res, body := doJSON(t, e, http.MethodGet, "/order/get-orders", nil, e.accessToken(t, shop.RoleAdmin))

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Len(t, body["orders"], 1)
	})
}

func TestUploadFile(t *testing.T) {
	e := newTestEnv(t)
	e.files.On("Upload", mock.Anything, "avatars", "photo.png", mock.Anything, mock.Anything).
		Return("avatars/abc-photo.png", "https://cdn.example.com/avatars/abc-photo.png", nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("folderName", "avatars"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/common/upload-file", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.accessToken(t, shop.RoleUser))

	res, err := e.server.App().Test(req, 5000)
	require.NoError(t, err)

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "avatars/abc-photo.png", body["key"])
	assert.NotEmpty(t, body["url"])
	e.files.AssertExpectations(t)
}

func TestCreatePaymentOrder(t *testing.T) {
	e := newTestEnv(t)
	e.repo.products.On("GetByID", mock.Anything, "prd-1").
		Return(&shop.Product{
			ID:    "prd-1",
			Title: "Atomic Habits",
			Price: shop.Price{OriginalPrice: 599, OfferPrice: 499},
		}, nil)
	e.gateway.On("CreateOrder", mock.Anything, 998.0, mock.AnythingOfType("string")).
		Return(&payments.GatewayOrder{ID: "order_gw1", Amount: 99800, Currency: "INR"}, nil)
	e.repo.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *shop.Order) bool {
		return o.Payment.GatewayOrderID == "order_gw1" && o.Payment.TotalAmount == 998.0 && o.Customer.UserID == "usr-1"
	})).Return(&shop.Order{ID: "ord-1"}, nil)

	res, body := doJSON(t, e, http.MethodPost, "/razorpay/create-order", map[string]any{
		"items": []map[string]any{
			{"productId": "prd-1", "quantity": 2},
		},
	}, e.accessToken(t, shop.RoleUser))

	require.Equal(t, http.StatusCreated, res.StatusCode)
	order, ok := body["order"].(map[string]any)
	require.True(t, ok, "expected gateway order in response, got %v", body)
	assert.Equal(t, "order_gw1", order["id"])
	e.gateway.AssertExpectations(t)
	e.repo.orders.AssertExpectations(t)
}

func TestCreatePaymentOrderQuantityCap(t *testing.T) {
	e := newTestEnv(t)

	res, _ := doJSON(t, e, http.MethodPost, "/razorpay/create-order", map[string]any{
		"items": []map[string]any{
			{"productId": "prd-1", "quantity": 6},
		},
	}, e.accessToken(t, shop.RoleUser))

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestVerifyPayment(t *testing.T) {
	webhookBody := []byte(`{"event":"payment.captured"}`)

	t.Run("records the payment", func(t *testing.T) {
		e := newTestEnv(t)
		e.gateway.On("VerifyWebhook", webhookBody, "sig-ok").
			Return(&payments.PaymentDetails{
				GatewayOrderID:   "order_gw1",
				Method:           "upi",
				Email:            "pepe@example.com",
				UPITransactionID: "UPI123",
			}, nil)
		e.repo.orders.On("AttachPaymentDetails", mock.Anything, "order_gw1", "upi", "pepe@example.com", "UPI123").
			Return(&shop.Order{ID: "ord-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/razorpay/verify-payment", bytes.NewReader(webhookBody))
		req.Header.Set("X-Razorpay-Signature", "sig-ok")
		res, err := e.server.App().Test(req, 5000)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		e.repo.orders.AssertExpectations(t)
	})

	t.Run("rejects a bad signature", func(t *testing.T) {
		e := newTestEnv(t)
		e.gateway.On("VerifyWebhook", webhookBody, "sig-bad").
			Return(nil, payments.ErrInvalidSignature)

		req := httptest.NewRequest(http.MethodPost, "/razorpay/verify-payment", bytes.NewReader(webhookBody))
		req.Header.Set("X-Razorpay-Signature", "sig-bad")
		res, err := e.server.App().Test(req, 5000)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	e := newTestEnv(t)
	e.repo.products.On("List", mock.Anything, "").
		Return(nil, fmt.Errorf("mongo: connection reset by peer"))

	res, body := doJSON(t, e, http.MethodGet, "/product/get-products", nil, "")

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, true, body["error"])
	assert.NotContains(t, body["message"], "mongo", "internals must not leak")
}
