package usecase

import (
	"context"

	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
)

// BuildRegistry derives the current set of published listings from the
// action window. Actions are visited in feed order (indexer response
// order, typically reverse-chronological) and the first decodable listing
// per node address wins; later duplicates are discarded. Malformed memos
// are silently skipped.
func BuildRegistry(actions []entity.Action) []entity.Node {
	seen := make(map[string]struct{})
	nodes := make([]entity.Node, 0)
	for _, action := range actions {
		listing := memo.DecodeListing(action.Memo)
		if listing == nil {
			continue
		}
		if _, ok := seen[listing.NodeAddress]; ok {
			continue
		}
		seen[listing.NodeAddress] = struct{}{}
		nodes = append(nodes, entity.Node{
			OperatorAddress: listing.OperatorAddress,
			NodeAddress:     listing.NodeAddress,
			BondingCapacity: listing.MaxBond,
			MinimumBond:     listing.MinBond,
			FeePercentage:   listing.FeePercentage,
			CreatedAt:       action.CreatedAt(),
		})
	}
	return nodes
}

// GetNodes returns the registry derived from the cached action window.
func (u *Usecase) GetNodes(_ context.Context) ([]entity.Node, error) {
	actions, err := u.snapshot()
	if err != nil {
		return nil, err
	}
	return BuildRegistry(actions), nil
}
