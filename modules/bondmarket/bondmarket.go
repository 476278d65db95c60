package bondmarket

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/do/v2"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/internal/config"
	"github.com/thorbond/bond-indexer/modules/bondmarket/api/httphandler"
	"github.com/thorbond/bond-indexer/modules/bondmarket/datagateway"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/midgard"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/thornode"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/wallet"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
	"github.com/thorbond/bond-indexer/modules/bondmarket/usecase"
	"github.com/thorbond/bond-indexer/pkg/httpclient"
)

// Module bundles the reconciliation engine with its HTTP surface.
type Module struct {
	Usecase *usecase.Usecase
	Handler *httphandler.HttpHandler
}

func New(injector do.Injector) (*Module, error) {
	conf := do.MustInvoke[config.Config](injector)

	if !memo.IsChainAddress(conf.BondMarket.ProtocolAddress) {
		return nil, errors.Wrapf(errs.InvalidArgument, "bondmarket.protocol_address %q must start with %q", conf.BondMarket.ProtocolAddress, memo.AddressPrefix)
	}

	midgardClient, err := midgard.NewClient(conf.Midgard.BaseURL, httpclient.Config{Debug: conf.Midgard.Debug})
	if err != nil {
		return nil, errors.Wrap(err, "can't create midgard client")
	}

	thornodeClient, err := thornode.NewClient(conf.Thornode.BaseURL, httpclient.Config{Debug: conf.Thornode.Debug})
	if err != nil {
		return nil, errors.Wrap(err, "can't create thornode client")
	}

	var walletDg datagateway.WalletDataGateway
	if !conf.Wallet.Disabled && conf.Wallet.BaseURL != "" {
		walletClient, err := wallet.NewClient(conf.Wallet.BaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "can't create wallet client")
		}
		walletDg = walletClient
	}

	uc := usecase.New(midgardClient, thornodeClient, walletDg, conf.BondMarket)
	return &Module{
		Usecase: uc,
		Handler: httphandler.New(uc),
	}, nil
}
