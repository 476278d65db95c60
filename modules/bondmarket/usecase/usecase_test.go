package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/modules/bondmarket/config"
	"github.com/thorbond/bond-indexer/modules/bondmarket/datagateway"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
)

func whitelistRequestFixture() memo.WhitelistRequest {
	return memo.WhitelistRequest{
		NodeAddress: "thorNODE",
		UserAddress: "thorUSER",
		Amount:      decimal.NewFromInt(500),
	}
}

func listingFixture() memo.Listing {
	return memo.Listing{
		NodeAddress:     "thorNODE",
		OperatorAddress: "thorOP",
		MinBond:         decimal.NewFromInt(100),
		MaxBond:         decimal.NewFromInt(10000),
		FeePercentage:   decimal.NewFromInt(5),
	}
}

type stubActionDg struct {
	mu      sync.Mutex
	actions []entity.Action
	err     error
	calls   int
	block   chan struct{} // when set, GetActions waits until closed
}

func (s *stubActionDg) GetActions(_ context.Context, _ datagateway.GetActionsParams) ([]entity.Action, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.actions, nil
}

type stubBondDg struct {
	mu    sync.Mutex
	infos map[string]entity.BondInfo // keyed by nodeAddress/userAddress
	err   error
	calls int
	block chan struct{} // when set, GetBondInfo waits until closed or ctx is done
}

func bondKey(nodeAddress, userAddress string) string {
	return fmt.Sprintf("%s/%s", nodeAddress, userAddress)
}

func (s *stubBondDg) GetBondInfo(ctx context.Context, nodeAddress, userAddress string) (*entity.BondInfo, error) {
	if s.block != nil {
		select {
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		case <-s.block:
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	info := s.infos[bondKey(nodeAddress, userAddress)]
	return &info, nil
}

type stubWalletDg struct {
	lastParams datagateway.TransferParams
	txHash     string
	err        error
}

func (s *stubWalletDg) Transfer(_ context.Context, params datagateway.TransferParams) (string, error) {
	s.lastParams = params
	if s.err != nil {
		return "", s.err
	}
	return s.txHash, nil
}

func sendAction(memo string, nanos int64) entity.Action {
	return entity.Action{
		Type:      SendActionType,
		DateNanos: nanos,
		Memo:      memo,
		Status:    "success",
	}
}

func newTestUsecase(actionDg *stubActionDg, bondDg *stubBondDg, walletDg datagateway.WalletDataGateway) *Usecase {
	return New(actionDg, bondDg, walletDg, config.Config{
		ProtocolAddress: "thorPROTOCOL",
	})
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("reads_fail_before_initialize", func(t *testing.T) {
		u := newTestUsecase(&stubActionDg{}, &stubBondDg{}, nil)

		_, err := u.GetActions(ctx)
		assert.True(t, errors.Is(err, errs.NotInitialized))
		_, err = u.GetNodes(ctx)
		assert.True(t, errors.Is(err, errs.NotInitialized))
		_, err = u.ReconcileRequests(ctx, "thorUSER")
		assert.True(t, errors.Is(err, errs.NotInitialized))
	})

	t.Run("reads_succeed_after_initialize", func(t *testing.T) {
		actionDg := &stubActionDg{actions: []entity.Action{sendAction("TB:thorNODE:thorOP:100:10000:5", 1)}}
		u := newTestUsecase(actionDg, &stubBondDg{}, nil)

		require.NoError(t, u.Initialize(ctx))
		assert.Equal(t, StateReady, u.State())

		actions, err := u.GetActions(ctx)
		require.NoError(t, err)
		assert.Len(t, actions, 1)
	})

	t.Run("initialize_is_noop_when_ready", func(t *testing.T) {
		actionDg := &stubActionDg{}
		u := newTestUsecase(actionDg, &stubBondDg{}, nil)

		require.NoError(t, u.Initialize(ctx))
		require.NoError(t, u.Initialize(ctx))
		assert.Equal(t, 1, actionDg.calls)
	})

	t.Run("failed_initialize_stays_uninitialized", func(t *testing.T) {
		actionDg := &stubActionDg{err: errors.Wrap(errs.FetchFailed, "boom")}
		u := newTestUsecase(actionDg, &stubBondDg{}, nil)

		err := u.Initialize(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.FetchFailed))
		assert.Equal(t, StateUninitialized, u.State())

		_, err = u.GetActions(ctx)
		assert.True(t, errors.Is(err, errs.NotInitialized))
	})

	t.Run("concurrent_initialize_performs_one_fetch", func(t *testing.T) {
		release := make(chan struct{})
		actionDg := &stubActionDg{block: release}
		u := newTestUsecase(actionDg, &stubBondDg{}, nil)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, u.Initialize(ctx))
			}()
		}
		// let the callers pile up on the in-flight fetch before releasing it
		time.Sleep(10 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, StateReady, u.State())
		assert.Equal(t, 1, actionDg.calls)
	})

	t.Run("refresh_replaces_the_action_cache", func(t *testing.T) {
		actionDg := &stubActionDg{actions: []entity.Action{sendAction("TB:thorNODE:thorOP:100:10000:5", 1)}}
		u := newTestUsecase(actionDg, &stubBondDg{}, nil)
		require.NoError(t, u.Initialize(ctx))

		actionDg.mu.Lock()
		actionDg.actions = []entity.Action{
			sendAction("TB:thorNODE:thorOP:100:10000:5", 1),
			sendAction("TB:thorNODE2:thorOP:200:20000:10", 2),
		}
		actionDg.mu.Unlock()

		require.NoError(t, u.Refresh(ctx))
		assert.Equal(t, 2, actionDg.calls)

		actions, err := u.GetActions(ctx)
		require.NoError(t, err)
		assert.Len(t, actions, 2)
	})
}

func TestBuildRegistry(t *testing.T) {
	t.Run("single_listing_materializes_one_node", func(t *testing.T) {
		nodes := BuildRegistry([]entity.Action{sendAction("TB:thorNODE:thorOP:100:10000:5", 1700000000000000000)})
		require.Len(t, nodes, 1)
		node := nodes[0]
		assert.Equal(t, "thorOP", node.OperatorAddress)
		assert.Equal(t, "thorNODE", node.NodeAddress)
		assert.True(t, node.MinimumBond.Equal(decimal.NewFromInt(100)))
		assert.True(t, node.BondingCapacity.Equal(decimal.NewFromInt(10000)))
		assert.True(t, node.FeePercentage.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, int64(1700000000), node.CreatedAt.Unix())
	})

	t.Run("first_seen_in_feed_order_wins", func(t *testing.T) {
		nodes := BuildRegistry([]entity.Action{
			sendAction("TB:thorNODE:thorOP:100:10000:5", 1),
			sendAction("TB:thorNODE:thorOP2:999:99999:20", 2),
		})
		require.Len(t, nodes, 1)
		assert.Equal(t, "thorOP", nodes[0].OperatorAddress)
		assert.True(t, nodes[0].MinimumBond.Equal(decimal.NewFromInt(100)))
	})

	t.Run("malformed_memos_are_skipped", func(t *testing.T) {
		nodes := BuildRegistry([]entity.Action{
			sendAction("", 1),
			sendAction("SWAP:BTC.BTC:thorUSER", 2),
			sendAction("TB:thorNODE:thorOP:abc:10000:5", 3),
			sendAction("TB:thorNODE:thorOP:100:10000:5", 4),
			sendAction("TB:thorNODE2:thorOP:100:10000", 5),
		})
		require.Len(t, nodes, 1)
		assert.Equal(t, "thorNODE", nodes[0].NodeAddress)
	})
}

func TestClassifyStatus(t *testing.T) {
	testStatus := func(name string, info entity.BondInfo, expected entity.WhitelistStatus) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, expected, classifyStatus(info))
		})
	}

	testStatus("not_a_provider_is_pending", entity.BondInfo{}, entity.WhitelistStatusPending)
	testStatus("provider_without_bond_is_approved",
		entity.BondInfo{IsBondProvider: true, BondedAmount: decimal.Zero},
		entity.WhitelistStatusApproved)
	testStatus("provider_with_bond_is_bonded",
		entity.BondInfo{IsBondProvider: true, BondedAmount: decimal.NewFromInt(50)},
		entity.WhitelistStatusBonded)
	testStatus("bond_without_provider_flag_stays_pending",
		entity.BondInfo{IsBondProvider: false, BondedAmount: decimal.NewFromInt(50)},
		entity.WhitelistStatusPending)
}

func TestReconcileRequests(t *testing.T) {
	ctx := context.Background()

	listingAndRequest := []entity.Action{
		sendAction("TB:thorNODE:thorOP:100:10000:5", 1),
		sendAction("TB:thorNODE:thorUSER:500", 2),
	}

	t.Run("approved_request_for_the_requesting_user", func(t *testing.T) {
		actionDg := &stubActionDg{actions: listingAndRequest}
		bondDg := &stubBondDg{infos: map[string]entity.BondInfo{
			bondKey("thorNODE", "thorUSER"): {IsBondProvider: true, BondedAmount: decimal.Zero},
		}}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		result, err := u.ReconcileRequests(ctx, "thorUSER")
		require.NoError(t, err)
		assert.Empty(t, result.OperatorRequests)
		require.Len(t, result.UserRequests, 1)

		request := result.UserRequests[0]
		assert.Equal(t, entity.WhitelistStatusApproved, request.Status)
		assert.Equal(t, "thorUSER", request.WalletAddress)
		assert.True(t, request.IntendedBondAmount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "thorNODE", request.Node.NodeAddress)
	})

	t.Run("operator_sees_requests_for_their_node", func(t *testing.T) {
		actionDg := &stubActionDg{actions: listingAndRequest}
		bondDg := &stubBondDg{}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		result, err := u.ReconcileRequests(ctx, "thorOP")
		require.NoError(t, err)
		assert.Empty(t, result.UserRequests)
		require.Len(t, result.OperatorRequests, 1)
		assert.Equal(t, entity.WhitelistStatusPending, result.OperatorRequests[0].Status)
	})

	t.Run("unrelated_viewer_sees_nothing", func(t *testing.T) {
		actionDg := &stubActionDg{actions: listingAndRequest}
		bondDg := &stubBondDg{}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		result, err := u.ReconcileRequests(ctx, "thorSTRANGER")
		require.NoError(t, err)
		assert.Empty(t, result.UserRequests)
		assert.Empty(t, result.OperatorRequests)
		assert.Equal(t, 0, bondDg.calls)
	})

	t.Run("viewer_who_is_both_user_and_operator_appears_in_both_partitions", func(t *testing.T) {
		actionDg := &stubActionDg{actions: []entity.Action{
			sendAction("TB:thorNODE:thorOP:100:10000:5", 1),
			sendAction("TB:thorNODE:thorOP:500", 2),
		}}
		bondDg := &stubBondDg{}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		result, err := u.ReconcileRequests(ctx, "thorOP")
		require.NoError(t, err)
		assert.Len(t, result.UserRequests, 1)
		assert.Len(t, result.OperatorRequests, 1)
		assert.Equal(t, 1, bondDg.calls)
	})

	t.Run("request_for_unknown_node_aborts_the_batch", func(t *testing.T) {
		actionDg := &stubActionDg{actions: []entity.Action{
			sendAction("TB:thorNODE:thorOP:100:10000:5", 1),
			sendAction("TB:thorGHOST:thorUSER:500", 2),
		}}
		bondDg := &stubBondDg{}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		_, err := u.ReconcileRequests(ctx, "thorUSER")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.InconsistentState))
		assert.Equal(t, 0, bondDg.calls)
	})

	t.Run("oracle_failure_aborts_the_batch", func(t *testing.T) {
		actionDg := &stubActionDg{actions: listingAndRequest}
		bondDg := &stubBondDg{err: errors.Wrap(errs.FetchFailed, "failed to retrieve bond info")}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		_, err := u.ReconcileRequests(ctx, "thorUSER")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.FetchFailed))
	})

	t.Run("cancelling_the_context_aborts_the_batch", func(t *testing.T) {
		actionDg := &stubActionDg{actions: listingAndRequest}
		bondDg := &stubBondDg{block: make(chan struct{})}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		reconcileCtx, cancel := context.WithCancel(ctx)
		errCh := make(chan error, 1)
		go func() {
			_, err := u.ReconcileRequests(reconcileCtx, "thorUSER")
			errCh <- err
		}()

		cancel()
		select {
		case err := <-errCh:
			require.Error(t, err)
			assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, pond.ErrGroupStopped))
		case <-time.After(5 * time.Second):
			t.Fatal("reconcile did not abort after cancellation")
		}
	})

	t.Run("results_preserve_feed_order", func(t *testing.T) {
		actions := []entity.Action{sendAction("TB:thorNODE:thorOP:100:10000:5", 1)}
		for i := 0; i < 20; i++ {
			actions = append(actions, sendAction(fmt.Sprintf("TB:thorNODE:thorUSER%02d:500", i), int64(i+2)))
		}
		actionDg := &stubActionDg{actions: actions}
		bondDg := &stubBondDg{}
		u := newTestUsecase(actionDg, bondDg, nil)
		require.NoError(t, u.Initialize(ctx))

		result, err := u.ReconcileRequests(ctx, "thorOP")
		require.NoError(t, err)
		require.Len(t, result.OperatorRequests, 20)
		for i, request := range result.OperatorRequests {
			assert.Equal(t, fmt.Sprintf("thorUSER%02d", i), request.WalletAddress)
		}
		assert.Equal(t, 20, bondDg.calls)
	})
}

func TestPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("whitelist_request_uses_the_fixed_transfer_contract", func(t *testing.T) {
		walletDg := &stubWalletDg{txHash: "ABCDEF"}
		u := newTestUsecase(&stubActionDg{}, &stubBondDg{}, walletDg)

		txHash, err := u.RequestWhitelist(ctx, "thorUSER", whitelistRequestFixture())
		require.NoError(t, err)
		assert.Equal(t, "ABCDEF", txHash)

		params := walletDg.lastParams
		assert.Equal(t, runeAsset, params.Asset)
		assert.Equal(t, "thorUSER", params.From)
		assert.Equal(t, "thorPROTOCOL", params.Recipient)
		assert.Equal(t, int64(1000000), params.Amount.Amount)
		assert.Equal(t, 8, params.Amount.Decimals)
		assert.Equal(t, "TB:thorNODE:thorUSER:500", params.Memo)
	})

	t.Run("listing_validation_failure_never_reaches_the_wallet", func(t *testing.T) {
		walletDg := &stubWalletDg{}
		u := newTestUsecase(&stubActionDg{}, &stubBondDg{}, walletDg)

		listing := listingFixture()
		listing.MinBond = decimal.Zero
		_, err := u.PublishListing(ctx, "thorOP", listing)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.InvalidArgument))
		assert.Empty(t, walletDg.lastParams.Memo)
	})

	t.Run("wallet_failure_is_surfaced", func(t *testing.T) {
		walletErr := errors.New("ledger rejected the transaction")
		walletDg := &stubWalletDg{err: walletErr}
		u := newTestUsecase(&stubActionDg{}, &stubBondDg{}, walletDg)

		_, err := u.RequestWhitelist(ctx, "thorUSER", whitelistRequestFixture())
		require.Error(t, err)
		assert.True(t, errors.Is(err, walletErr))
	})

	t.Run("transfers_disabled_without_a_wallet_gateway", func(t *testing.T) {
		u := newTestUsecase(&stubActionDg{}, &stubBondDg{}, nil)

		_, err := u.RequestWhitelist(ctx, "thorUSER", whitelistRequestFixture())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.Unsupported))
	})

	t.Run("from_address_must_be_a_chain_address", func(t *testing.T) {
		u := newTestUsecase(&stubActionDg{}, &stubBondDg{}, &stubWalletDg{})

		_, err := u.RequestWhitelist(ctx, "bnbUSER", whitelistRequestFixture())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.InvalidArgument))
	})
}
