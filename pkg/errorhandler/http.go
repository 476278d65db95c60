package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/pkg/logger"
	"github.com/thorbond/bond-indexer/pkg/logger/slogx"
)

// NewHTTPErrorHandler maps internal error kinds to HTTP responses.
// Validation failures carry their specific message to the caller; fetch and
// consistency failures are returned as generic operation failures with the
// detail logged.
func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": e.Message(),
			}))
		}
		if errors.Is(err, errs.InvalidArgument) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			}))
		}
		if errors.Is(err, errs.NotInitialized) {
			return errors.WithStack(ctx.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"error": errs.NotInitialized.Error(),
			}))
		}
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(ctx.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": errs.NotFound.Error(),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).SendString(e.Error()))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			slogx.String("event", "api_unhandled_error"),
			slogx.Error(err),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		}))
	}
}
