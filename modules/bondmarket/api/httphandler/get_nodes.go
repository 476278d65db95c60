package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/thorbond/bond-indexer/common"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
)

type node struct {
	OperatorAddress string          `json:"operatorAddress"`
	NodeAddress     string          `json:"nodeAddress"`
	BondingCapacity decimal.Decimal `json:"bondingCapacity"`
	MinimumBond     decimal.Decimal `json:"minimumBond"`
	FeePercentage   decimal.Decimal `json:"feePercentage"`
	CreatedAt       int64           `json:"createdAt"` // unix timestamp
}

func nodeFromEntity(src entity.Node) node {
	return node{
		OperatorAddress: src.OperatorAddress,
		NodeAddress:     src.NodeAddress,
		BondingCapacity: src.BondingCapacity,
		MinimumBond:     src.MinimumBond,
		FeePercentage:   src.FeePercentage,
		CreatedAt:       src.CreatedAt.Unix(),
	}
}

type getNodesResult struct {
	Nodes []node `json:"nodes"`
}

type getNodesResponse = common.HttpResponse[getNodesResult]

func (h *HttpHandler) GetNodes(ctx *fiber.Ctx) error {
	nodes, err := h.usecase.GetNodes(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetNodes")
	}

	resp := getNodesResponse{
		Result: &getNodesResult{
			Nodes: lo.Map(nodes, func(src entity.Node, _ int) node {
				return nodeFromEntity(src)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
