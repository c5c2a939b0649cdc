package rest

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	shop "github.com/goliatone/go-shop"
	"github.com/goliatone/go-shop/middleware/jwtware"
)

func (s *Server) handleSignup(c *fiber.Ctx) error {
	payload := new(SignupPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if s.deps.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	msg := shop.RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Role:     payload.Role,
		Password: payload.Password,
	}

	if err := s.deps.Register.Execute(c.UserContext(), msg); err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"message": "Account created, please check your email to verify it",
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	role, _ := shop.ParseRole(payload.Role)

	pair, err := s.deps.Auth.Login(c.UserContext(), payload.Email, payload.Password, role)
	if err != nil {
		s.deps.Logger.Info("login rejected", "email", payload.Email)
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// handleRefresh exchanges the refresh token in the Authorization header for a
// fresh access token. It is not behind the bearer middleware because it has
// to accept refresh tokens, which the middleware would reject.
func (s *Server) handleRefresh(c *fiber.Ctx) error {
	raw, err := jwtware.ExtractRawToken(c, s.deps.Config.GetAuthScheme())
	if err != nil {
		return shop.ErrTokenMalformed
	}

	pair, err := s.deps.Auth.Refresh(c.UserContext(), raw)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *Server) handleVerifyAccount(c *fiber.Ctx) error {
	msg := shop.VerifyAccountMessage{
		Token: c.Params("token"),
		Role:  c.Query("role"),
	}

	if err := s.deps.Verify.Execute(c.UserContext(), msg); err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Account verified",
	})
}

func (s *Server) handleResetPasswordRequest(c *fiber.Ctx) error {
	payload := new(ResetRequestPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	if !s.resetLimiter.Allow(payload.Email) {
		return shop.ErrTooManyRequests
	}

	msg := shop.InitializePasswordResetMessage{
		Email: payload.Email,
		Role:  payload.Role,
	}

	if err := s.deps.ResetInit.Execute(c.UserContext(), msg); err != nil {
		return err
	}

	// Same acknowledgment whether or not the account exists.
	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "If that account exists, a reset email is on its way",
	})
}

func (s *Server) handleResetPasswordFinalize(c *fiber.Ctx) error {
	payload := new(ResetFinalizePayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	msg := shop.FinalizePasswordResetMessage{
		Token:    c.Params("token"),
		Password: payload.Password,
		Role:     payload.Role,
	}

	if err := s.deps.ResetFinalize.Execute(c.UserContext(), msg); err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Password updated",
	})
}
