package usecase

import (
	"context"
	"sync"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/modules/bondmarket/config"
	"github.com/thorbond/bond-indexer/modules/bondmarket/datagateway"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
	"golang.org/x/sync/singleflight"
)

// SendActionType is the only transaction kind the action window is
// filtered to.
const SendActionType = "send"

const (
	DefaultActionLimit          = 50
	DefaultReconcileConcurrency = 4
)

// State is the engine lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Usecase owns the ingested action cache and exposes the lifecycle and read
// operations of the reconciliation engine. The action cache has a single
// writer and is replaced wholesale on refresh; reads against a prior
// snapshot stay internally consistent.
type Usecase struct {
	actionDg datagateway.ActionDataGateway
	bondDg   datagateway.BondInfoDataGateway
	walletDg datagateway.WalletDataGateway
	config   config.Config

	mu      sync.RWMutex
	state   State
	actions []entity.Action

	initGroup singleflight.Group
}

func New(actionDg datagateway.ActionDataGateway, bondDg datagateway.BondInfoDataGateway, walletDg datagateway.WalletDataGateway, conf config.Config) *Usecase {
	conf.ActionLimit = utils.Default(conf.ActionLimit, DefaultActionLimit)
	conf.ReconcileConcurrency = utils.Default(conf.ReconcileConcurrency, DefaultReconcileConcurrency)
	return &Usecase{
		actionDg: actionDg,
		bondDg:   bondDg,
		walletDg: walletDg,
		config:   conf,
	}
}

// State returns the current lifecycle state.
func (u *Usecase) State() State {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.state
}

// Initialize fetches the action window and transitions the engine to Ready.
// A no-op if the engine is already Ready. Concurrent calls are coalesced
// into a single fetch.
func (u *Usecase) Initialize(ctx context.Context) error {
	if u.State() == StateReady {
		return nil
	}

	_, err, _ := u.initGroup.Do("initialize", func() (any, error) {
		u.setState(StateInitializing)

		actions, err := u.actionDg.GetActions(ctx, datagateway.GetActionsParams{
			Address: u.config.ProtocolAddress,
			Limit:   u.config.ActionLimit,
			Offset:  0,
			Type:    SendActionType,
		})
		if err != nil {
			u.setState(StateUninitialized)
			return nil, errors.Wrap(err, "can't initialize engine")
		}

		u.mu.Lock()
		u.actions = actions
		u.state = StateReady
		u.mu.Unlock()
		return nil, nil
	})
	return err
}

// Refresh forces the engine back to Uninitialized and re-runs Initialize,
// replacing the action cache.
func (u *Usecase) Refresh(ctx context.Context) error {
	u.setState(StateUninitialized)
	return u.Initialize(ctx)
}

// GetActions returns the cached action window.
func (u *Usecase) GetActions(_ context.Context) ([]entity.Action, error) {
	return u.snapshot()
}

func (u *Usecase) setState(state State) {
	u.mu.Lock()
	u.state = state
	u.mu.Unlock()
}

// snapshot returns the current action cache. The slice is never mutated
// after the swap, so callers may iterate it without holding the lock.
func (u *Usecase) snapshot() ([]entity.Action, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.state != StateReady {
		return nil, errors.Wrapf(errs.NotInitialized, "engine state is %s", u.state)
	}
	return u.actions, nil
}
