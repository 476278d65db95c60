package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/thorbond/bond-indexer/common"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
)

type createWhitelistRequestRequest struct {
	From        string          `json:"from"`
	NodeAddress string          `json:"nodeAddress"`
	Amount      decimal.Decimal `json:"amount"`
}

type createWhitelistRequestResult struct {
	TxHash string `json:"txHash"`
	Memo   string `json:"memo"`
}

type createWhitelistRequestResponse = common.HttpResponse[createWhitelistRequestResult]

func (h *HttpHandler) CreateWhitelistRequest(ctx *fiber.Ctx) error {
	var req createWhitelistRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}

	request := memo.WhitelistRequest{
		NodeAddress: req.NodeAddress,
		UserAddress: req.From,
		Amount:      req.Amount,
	}
	txHash, err := h.usecase.RequestWhitelist(ctx.UserContext(), req.From, request)
	if err != nil {
		return errors.Wrap(err, "error during RequestWhitelist")
	}

	resp := createWhitelistRequestResponse{
		Result: &createWhitelistRequestResult{
			TxHash: txHash,
			Memo:   request.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
