package rest

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	shop "github.com/goliatone/go-shop"
)

// ok renders the success envelope. Extra fields ride alongside error=false.
func ok(c *fiber.Ctx, status int, fields fiber.Map) error {
	payload := fiber.Map{"error": false}
	for k, v := range fields {
		payload[k] = v
	}
	return c.Status(status).JSON(payload)
}

// fail renders the failure envelope from a rich error. Internal errors keep
// their detail out of the response body.
func fail(c *fiber.Ctx, err *goerrors.Error) error {
	status := statusFor(err)
	message := err.Message
	if status >= http.StatusInternalServerError {
		message = "An unexpected server error occurred"
	}

	payload := fiber.Map{
		"error":   true,
		"message": message,
	}
	if err.TextCode != "" {
		payload["code"] = err.TextCode
	}

	return c.Status(status).JSON(payload)
}

// asRichError normalizes anything a handler returns into a rich error.
func asRichError(err error) *goerrors.Error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	if fiberErr, ok := err.(*fiber.Error); ok {
		return goerrors.New(fiberErr.Message, goerrors.CategoryOperation).
			WithCode(fiberErr.Code)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
		WithCode(goerrors.CodeInternal)
}

func statusFor(err *goerrors.Error) int {
	if err.Code > 0 {
		return err.Code
	}

	switch err.Category {
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler is the app level fiber error handler: every error a handler
// returns funnels through here and comes out as the failure envelope.
func errorHandler(logger shop.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		richErr := asRichError(err)

		if statusFor(richErr) >= http.StatusInternalServerError {
			logger.Error("request failed",
				"path", c.Path(),
				"category", richErr.Category,
				"error", richErr.Error(),
			)
		}

		return fail(c, richErr)
	}
}

// authErrorHandler normalizes middleware failures into the auth sentinels so
// clients can tell an expired token from a rejected one.
func authErrorHandler(logger shop.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error

		if shop.IsTokenExpiredError(err) {
			richErr = shop.ErrTokenExpired
		} else if shop.IsMalformedError(err) {
			richErr = shop.ErrTokenMalformed
		} else if strings.Contains(err.Error(), "access denied") {
			richErr = goerrors.Wrap(err, goerrors.CategoryAuthz, "Insufficient permissions").
				WithCode(goerrors.CodeForbidden)
		} else if !goerrors.As(err, &richErr) {
			richErr = goerrors.Wrap(err, goerrors.CategoryAuth, "Invalid authentication token").
				WithCode(goerrors.CodeUnauthorized)
		}

		logger.Debug("request rejected",
			"path", c.Path(),
			"error", richErr.Message,
		)

		return fail(c, richErr)
	}
}
