package fakeapi

import (
	commonsHttp "github.com/LerianStudio/lib-commons/commons/net/http"
	"github.com/gofiber/fiber/v2"
)

// apiError is an error document the fake answers with.
type apiError struct {
	Status  int
	Code    string
	Title   string
	Message string
}

// withError writes e with the response helper matching its status.
func withError(c *fiber.Ctx, e apiError) error {
	switch e.Status {
	case fiber.StatusBadRequest:
		return commonsHttp.BadRequest(c, fiber.Map{
			"code":    e.Code,
			"title":   e.Title,
			"message": e.Message,
		})
	case fiber.StatusUnauthorized:
		return commonsHttp.Unauthorized(c, e.Code, e.Title, e.Message)
	case fiber.StatusNotFound:
		return commonsHttp.NotFound(c, e.Code, e.Title, e.Message)
	case fiber.StatusInternalServerError:
		return commonsHttp.InternalServerError(c, e.Code, e.Title, e.Message)
	default:
		return c.Status(e.Status).JSON(fiber.Map{
			"code":    e.Code,
			"title":   e.Title,
			"message": e.Message,
		})
	}
}

func injectedFailure(status int) apiError {
	return apiError{
		Status:  status,
		Code:    "SNYK-FAKE-0001",
		Title:   "Injected failure",
		Message: "failure injected by test",
	}
}
