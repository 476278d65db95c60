package datagateway

import (
	"context"

	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
)

type GetActionsParams struct {
	Address string
	Limit   int
	Offset  int
	Type    string
}

// ActionDataGateway fetches a bounded window of historical transaction
// actions from the indexer service.
type ActionDataGateway interface {
	GetActions(ctx context.Context, params GetActionsParams) ([]entity.Action, error)
}
