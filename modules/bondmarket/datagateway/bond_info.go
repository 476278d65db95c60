package datagateway

import (
	"context"

	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
)

// BondInfoDataGateway queries the node-state service for the live bond
// state of a (node, user) pair.
type BondInfoDataGateway interface {
	GetBondInfo(ctx context.Context, nodeAddress, userAddress string) (*entity.BondInfo, error)
}
