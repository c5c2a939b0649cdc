package rest

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// 10MB, matches the storefront's client side limit
const maxUploadBytes = 10 << 20

func (s *Server) handleUploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "A file field is required").
			WithCode(goerrors.CodeBadRequest)
	}

	if header.Size > maxUploadBytes {
		return goerrors.New("file exceeds the upload size limit", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	file, err := header.Open()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open uploaded file")
	}
	defer file.Close()

	key, url, err := s.deps.Files.Upload(
		c.UserContext(),
		c.FormValue("folderName"),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"key": key,
		"url": url,
	})
}
