package usecase

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
)

// ReconcileResult partitions the status-annotated requests by viewer role.
// A request appears in both partitions only when the viewer is both the
// requesting user and the node operator.
type ReconcileResult struct {
	OperatorRequests []entity.WhitelistRequest
	UserRequests     []entity.WhitelistRequest
}

type candidate struct {
	request   memo.WhitelistRequest
	node      entity.Node
	createdAt time.Time
}

// ReconcileRequests joins the whitelist-request memos in the action window
// against the node registry and the live bond-state oracle, producing
// status-annotated requests visible to viewerAddress.
//
// A request referencing a node absent from the registry aborts the batch:
// it signals the registry and request streams are inconsistent, and the
// reconciler must not silently produce orphaned results.
//
// Each candidate is classified by exactly one oracle query per (node, user)
// pair, fanned out through a bounded worker pool. Result order follows feed
// order regardless of concurrency degree, and cancelling ctx aborts the
// in-flight batch.
func (u *Usecase) ReconcileRequests(ctx context.Context, viewerAddress string) (*ReconcileResult, error) {
	actions, err := u.snapshot()
	if err != nil {
		return nil, err
	}

	registry := BuildRegistry(actions)
	nodesByAddress := lo.SliceToMap(registry, func(node entity.Node) (string, entity.Node) {
		return node.NodeAddress, node
	})

	candidates := make([]candidate, 0)
	for _, action := range actions {
		request := memo.DecodeWhitelistRequest(action.Memo)
		if request == nil {
			continue
		}
		node, ok := nodesByAddress[request.NodeAddress]
		if !ok {
			return nil, errors.Wrapf(errs.InconsistentState, "node %s not found", request.NodeAddress)
		}
		if viewerAddress != request.UserAddress && viewerAddress != node.OperatorAddress {
			continue
		}
		candidates = append(candidates, candidate{
			request:   *request,
			node:      node,
			createdAt: action.CreatedAt(),
		})
	}

	requests := make([]entity.WhitelistRequest, len(candidates))
	pool := pond.NewPool(u.config.ReconcileConcurrency)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for i, cand := range candidates {
		i, cand := i, cand
		group.SubmitErr(func() error {
			info, err := u.bondDg.GetBondInfo(groupCtx, cand.node.NodeAddress, cand.request.UserAddress)
			if err != nil {
				return errors.Wrapf(err, "can't classify whitelist request for node %s user %s", cand.node.NodeAddress, cand.request.UserAddress)
			}
			requests[i] = entity.WhitelistRequest{
				Node:               cand.node,
				WalletAddress:      cand.request.UserAddress,
				IntendedBondAmount: cand.request.Amount,
				Status:             classifyStatus(*info),
				CreatedAt:          cand.createdAt,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		OperatorRequests: make([]entity.WhitelistRequest, 0),
		UserRequests:     make([]entity.WhitelistRequest, 0),
	}
	for i, request := range requests {
		if viewerAddress == candidates[i].request.UserAddress {
			result.UserRequests = append(result.UserRequests, request)
		}
		if viewerAddress == candidates[i].node.OperatorAddress {
			result.OperatorRequests = append(result.OperatorRequests, request)
		}
	}
	return result, nil
}

// classifyStatus derives the lifecycle status from observable bond state,
// in precedence order: pending, approved when the wallet is a recognized
// bond provider, bonded when it additionally has a positive bonded amount.
func classifyStatus(info entity.BondInfo) entity.WhitelistStatus {
	status := entity.WhitelistStatusPending
	if info.IsBondProvider {
		status = entity.WhitelistStatusApproved
		if info.BondedAmount.IsPositive() {
			status = entity.WhitelistStatusBonded
		}
	}
	return status
}
