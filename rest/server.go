// Package rest exposes the shop over a JSON HTTP API.
package rest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	shop "github.com/goliatone/go-shop"
	"github.com/goliatone/go-shop/middleware/jwtware"
	"github.com/goliatone/go-shop/payments"
)

// FileStore stores uploaded files and hands back a key and download URL.
type FileStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (key, url string, err error)
}

// PaymentGateway creates gateway orders and verifies webhook payloads.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (*payments.GatewayOrder, error)
	VerifyWebhook(body []byte, signature string) (*payments.PaymentDetails, error)
}

// Deps carries every collaborator the HTTP layer needs. Construct once in
// main and pass down; nothing here is read from globals.
type Deps struct {
	Config shop.Config
	Repo   shop.RepositoryManager
	Auth   shop.Authenticator
	Tokens shop.TokenService

	Register      *shop.RegisterUserHandler
	Verify        *shop.VerifyAccountHandler
	ResetInit     *shop.InitializePasswordResetHandler
	ResetFinalize *shop.FinalizePasswordResetHandler

	Files   FileStore
	Gateway PaymentGateway

	Logger shop.Logger
	// Debug dumps request payloads to stdout, never enable in production
	Debug bool
}

// Server owns the fiber app and the route handlers.
type Server struct {
	app          *fiber.App
	deps         Deps
	resetLimiter *RateLimiter
}

// New builds the app and registers every route.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = shop.DefaultLogger()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:      "go-shop",
			ErrorHandler: errorHandler(deps.Logger),
		}),
		deps: deps,
		// 3 reset mails per address per 15 minutes
		resetLimiter: NewRateLimiter(15*time.Minute, 3),
	}

	s.registerRoutes()

	return s
}

// App exposes the underlying fiber app for listening and for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr until the app is shut down.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	bearer := s.protected(jwtware.Config{})
	admin := s.protected(jwtware.Config{MinimumRole: shop.RoleAdmin})

	user := s.app.Group("/user")
	user.Post("/signup", s.handleSignup)
	user.Post("/login", s.handleLogin)
	user.Get("/refresh", s.handleRefresh)
	user.Post("/verify-account/:token", s.handleVerifyAccount)
	user.Post("/reset-password", s.handleResetPasswordRequest)
	user.Post("/reset-password/:token", s.handleResetPasswordFinalize)

	product := s.app.Group("/product")
	product.Get("/get-products", s.handleGetProducts)
	product.Post("/get-by-id", s.handleGetProductByID)
	product.Post("/create", admin, s.handleCreateProduct)
	product.Delete("/delete-by-id", admin, s.handleDeleteProduct)

	review := s.app.Group("/review")
	review.Get("/get-reviews", s.handleGetReviews)
	review.Get("/get-review-by-id", s.handleGetReviewByID)
	review.Post("/create-review", bearer, s.handleCreateReview)
	review.Delete("/delete-review", admin, s.handleDeleteReview)

	order := s.app.Group("/order")
	order.Get("/get-orders", admin, s.handleGetOrders)

	common := s.app.Group("/common")
	common.Post("/upload-file", bearer, s.handleUploadFile)

	razorpay := s.app.Group("/razorpay")
	razorpay.Post("/create-order", bearer, s.handleCreatePaymentOrder)
	// authenticated by its HMAC signature, not a bearer token
	razorpay.Post("/verify-payment", s.handleVerifyPayment)
}

// protected builds the bearer middleware around the token service, attaching
// validated claims to both fiber locals and the request context.
func (s *Server) protected(cfg jwtware.Config) fiber.Handler {
	cfg.TokenValidator = tokenValidator{tokens: s.deps.Tokens}
	cfg.ContextKey = s.deps.Config.GetContextKey()
	cfg.AuthScheme = s.deps.Config.GetAuthScheme()
	cfg.ErrorHandler = authErrorHandler(s.deps.Logger)
	cfg.ContextEnricher = func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
		if authClaims, ok := claims.(shop.AuthClaims); ok {
			return shop.WithClaimsContext(ctx, authClaims)
		}
		return ctx
	}
	return jwtware.New(cfg)
}

// sessionClaims pulls the authenticated claims out of the request context.
func (s *Server) sessionClaims(c *fiber.Ctx) (shop.AuthClaims, error) {
	claims, ok := shop.GetClaims(c.UserContext())
	if !ok {
		return nil, shop.ErrUnableToDecodeSession
	}
	return claims, nil
}

type tokenValidator struct {
	tokens shop.TokenService
}

func (v tokenValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func receiptFor(userID string) string {
	return fmt.Sprintf("rcpt_%s_%d", userID, time.Now().Unix())
}
