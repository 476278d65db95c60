package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/thorbond/bond-indexer/common"
)

type refreshResult struct {
	State string `json:"state"`
}

type refreshResponse = common.HttpResponse[refreshResult]

func (h *HttpHandler) Refresh(ctx *fiber.Ctx) error {
	if err := h.usecase.Refresh(ctx.UserContext()); err != nil {
		return errors.Wrap(err, "error during Refresh")
	}

	resp := refreshResponse{
		Result: &refreshResult{
			State: h.usecase.State().String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
