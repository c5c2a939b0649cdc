package rest

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	shop "github.com/goliatone/go-shop"
)

func (s *Server) handleGetProducts(c *fiber.Ctx) error {
	products, err := s.deps.Repo.Products().List(c.UserContext(), c.Query("title"))
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"products": products,
	})
}

func (s *Server) handleGetProductByID(c *fiber.Ctx) error {
	payload := new(IDPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	product, err := s.deps.Repo.Products().GetByID(c.UserContext(), payload.ID)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"product": product,
	})
}

func (s *Server) handleCreateProduct(c *fiber.Ctx) error {
	payload := new(ProductPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	// titles double as the storefront's lookup handle, keep them unique
	if _, err := s.deps.Repo.Products().GetByTitle(c.UserContext(), payload.Title); err == nil {
		return goerrors.New("a product with this title already exists", goerrors.CategoryConflict).
			WithCode(goerrors.CodeConflict)
	} else if !isNotFound(err) {
		return err
	}

	product, err := s.deps.Repo.Products().Create(c.UserContext(), &shop.Product{
		Title:       payload.Title,
		ImageURL:    payload.ImageURL,
		Description: payload.Description,
		Price:       payload.Price,
		OnSale:      payload.OnSale,
		Category:    payload.Category,
	})
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"product": product,
	})
}

func (s *Server) handleDeleteProduct(c *fiber.Ctx) error {
	payload := new(IDPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	if err := s.deps.Repo.Products().Delete(c.UserContext(), payload.ID); err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Product deleted",
	})
}

func (s *Server) handleGetReviews(c *fiber.Ctx) error {
	reviews, err := s.deps.Repo.Reviews().List(c.UserContext())
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"reviews": reviews,
	})
}

func (s *Server) handleGetReviewByID(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return goerrors.New("id query parameter is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	review, err := s.deps.Repo.Reviews().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"review": review,
	})
}

func (s *Server) handleCreateReview(c *fiber.Ctx) error {
	claims, err := s.sessionClaims(c)
	if err != nil {
		return err
	}

	payload := new(ReviewPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	// the product must exist before anyone reviews it
	if _, err := s.deps.Repo.Products().GetByID(c.UserContext(), payload.ProductID); err != nil {
		return err
	}

	review, err := s.deps.Repo.Reviews().Create(c.UserContext(), &shop.Review{
		Description: payload.Description,
		ProductID:   payload.ProductID,
		UserID:      claims.UserID(),
	})
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"review": review,
	})
}

func (s *Server) handleDeleteReview(c *fiber.Ctx) error {
	payload := new(IDPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest)
	}

	if err := s.deps.Repo.Reviews().Delete(c.UserContext(), payload.ID); err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Review deleted",
	})
}

func (s *Server) handleGetOrders(c *fiber.Ctx) error {
	orders, err := s.deps.Repo.Orders().List(c.UserContext())
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"orders": orders,
	})
}

func isNotFound(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryNotFound
}
