package rest

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	shop "github.com/goliatone/go-shop"
)

// handleCreatePaymentOrder turns the checkout items into a gateway order and
// a pending order document holding the gateway order id.
func (s *Server) handleCreatePaymentOrder(c *fiber.Ctx) error {
	claims, err := s.sessionClaims(c)
	if err != nil {
		return err
	}

	payload := new(CreateOrderPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	// snapshot each product so later catalog edits don't rewrite order history
	items := make([]shop.OrderItem, 0, len(payload.Items))
	for _, line := range payload.Items {
		product, err := s.deps.Repo.Products().GetByID(c.UserContext(), line.ProductID)
		if err != nil {
			return err
		}
		items = append(items, shop.OrderItem{
			Product:  *product,
			Quantity: line.Quantity,
		})
	}

	order := &shop.Order{
		Items: items,
		Customer: shop.OrderCustomer{
			Name:   claims.Name(),
			UserID: claims.UserID(),
		},
	}
	total := order.Total()

	gatewayOrder, err := s.deps.Gateway.CreateOrder(c.UserContext(), total, receiptFor(claims.UserID()))
	if err != nil {
		return err
	}

	order.Payment = shop.OrderPayment{
		GatewayOrderID: gatewayOrder.ID,
		TotalAmount:    total,
		Currency:       gatewayOrder.Currency,
	}

	if _, err := s.deps.Repo.Orders().Create(c.UserContext(), order); err != nil {
		return err
	}

	if s.deps.Debug {
		fmt.Println(print.MaybePrettyJSON(order))
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"order": gatewayOrder,
	})
}

// handleVerifyPayment is the gateway webhook. The HMAC signature is the only
// authentication; a bad signature must fail loudly, never be swallowed.
func (s *Server) handleVerifyPayment(c *fiber.Ctx) error {
	signature := c.Get("X-Razorpay-Signature")

	details, err := s.deps.Gateway.VerifyWebhook(c.Body(), signature)
	if err != nil {
		s.deps.Logger.Error("payment webhook rejected", "error", err)
		return err
	}

	order, err := s.deps.Repo.Orders().AttachPaymentDetails(
		c.UserContext(),
		details.GatewayOrderID,
		details.Method,
		details.Email,
		details.UPITransactionID,
	)
	if err != nil {
		return err
	}

	s.deps.Logger.Info("payment recorded",
		"order", order.ID,
		"gateway_order", details.GatewayOrderID,
		"method", details.Method,
	)

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Payment recorded",
	})
}
