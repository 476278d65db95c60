package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/thorbond/bond-indexer/common"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
)

type createListingRequest struct {
	From            string          `json:"from"`
	NodeAddress     string          `json:"nodeAddress"`
	OperatorAddress string          `json:"operatorAddress"`
	MinBond         decimal.Decimal `json:"minBond"`
	MaxBond         decimal.Decimal `json:"maxBond"`
	FeePercentage   decimal.Decimal `json:"feePercentage"`
}

type createListingResult struct {
	TxHash string `json:"txHash"`
	Memo   string `json:"memo"`
}

type createListingResponse = common.HttpResponse[createListingResult]

func (h *HttpHandler) CreateListing(ctx *fiber.Ctx) error {
	var req createListingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}

	listing := memo.Listing{
		NodeAddress:     req.NodeAddress,
		OperatorAddress: req.OperatorAddress,
		MinBond:         req.MinBond,
		MaxBond:         req.MaxBond,
		FeePercentage:   req.FeePercentage,
	}
	txHash, err := h.usecase.PublishListing(ctx.UserContext(), req.From, listing)
	if err != nil {
		return errors.Wrap(err, "error during PublishListing")
	}

	resp := createListingResponse{
		Result: &createListingResult{
			TxHash: txHash,
			Memo:   listing.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
