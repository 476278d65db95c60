package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/thorbond/bond-indexer/common"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
)

type getWhitelistRequestsRequest struct {
	Address string `query:"address"`
}

func (r *getWhitelistRequestsRequest) Validate() error {
	if !memo.IsChainAddress(r.Address) {
		return errs.NewPublicError("address must be a valid chain address")
	}
	return nil
}

type whitelistRequest struct {
	Node               node            `json:"node"`
	WalletAddress      string          `json:"walletAddress"`
	IntendedBondAmount decimal.Decimal `json:"intendedBondAmount"`
	Status             string          `json:"status"`
	CreatedAt          int64           `json:"createdAt"` // unix timestamp
	RejectionReason    string          `json:"rejectionReason,omitempty"`
}

func whitelistRequestFromEntity(src entity.WhitelistRequest) whitelistRequest {
	return whitelistRequest{
		Node:               nodeFromEntity(src.Node),
		WalletAddress:      src.WalletAddress,
		IntendedBondAmount: src.IntendedBondAmount,
		Status:             src.Status.String(),
		CreatedAt:          src.CreatedAt.Unix(),
		RejectionReason:    src.RejectionReason,
	}
}

type getWhitelistRequestsResult struct {
	OperatorRequests []whitelistRequest `json:"operatorRequests"`
	UserRequests     []whitelistRequest `json:"userRequests"`
}

type getWhitelistRequestsResponse = common.HttpResponse[getWhitelistRequestsResult]

func (h *HttpHandler) GetWhitelistRequests(ctx *fiber.Ctx) error {
	var req getWhitelistRequestsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.ReconcileRequests(ctx.UserContext(), req.Address)
	if err != nil {
		return errors.Wrap(err, "error during ReconcileRequests")
	}

	resp := getWhitelistRequestsResponse{
		Result: &getWhitelistRequestsResult{
			OperatorRequests: lo.Map(result.OperatorRequests, func(src entity.WhitelistRequest, _ int) whitelistRequest {
				return whitelistRequestFromEntity(src)
			}),
			UserRequests: lo.Map(result.UserRequests, func(src entity.WhitelistRequest, _ int) whitelistRequest {
				return whitelistRequestFromEntity(src)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
