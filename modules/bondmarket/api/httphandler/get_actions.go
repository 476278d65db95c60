package httphandler

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/thorbond/bond-indexer/common"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
)

type action struct {
	Type   string   `json:"type"`
	Date   string   `json:"date"` // nanoseconds since epoch
	Height int64    `json:"height"`
	Memo   string   `json:"memo,omitempty"`
	Pools  []string `json:"pools"`
	Status string   `json:"status"`
}

type getActionsResult struct {
	Actions []action `json:"actions"`
}

type getActionsResponse = common.HttpResponse[getActionsResult]

func (h *HttpHandler) GetActions(ctx *fiber.Ctx) error {
	actions, err := h.usecase.GetActions(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetActions")
	}

	resp := getActionsResponse{
		Result: &getActionsResult{
			Actions: lo.Map(actions, func(src entity.Action, _ int) action {
				return action{
					Type:   src.Type,
					Date:   strconv.FormatInt(src.DateNanos, 10),
					Height: src.Height,
					Memo:   src.Memo,
					Pools:  src.Pools,
					Status: src.Status,
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
