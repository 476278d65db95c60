package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/modules/bondmarket/datagateway"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
)

// Fixed transfer contract for protocol memos: 0.01 RUNE in base units.
const (
	transferBaseAmount = 1000000
	transferDecimals   = 8
)

var runeAsset = datagateway.TransferAsset{
	Chain:  "THOR",
	Symbol: "RUNE",
	Ticker: "RUNE",
}

// PublishListing encodes the listing memo strictly and submits it to the
// protocol address through the wallet gateway. Returns the transaction hash.
func (u *Usecase) PublishListing(ctx context.Context, fromAddress string, listing memo.Listing) (string, error) {
	encoded, err := memo.EncodeListing(listing)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return u.submitMemo(ctx, fromAddress, encoded)
}

// RequestWhitelist encodes the whitelist-request memo strictly and submits
// it to the protocol address through the wallet gateway.
func (u *Usecase) RequestWhitelist(ctx context.Context, fromAddress string, request memo.WhitelistRequest) (string, error) {
	encoded, err := memo.EncodeWhitelistRequest(request)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return u.submitMemo(ctx, fromAddress, encoded)
}

func (u *Usecase) submitMemo(ctx context.Context, fromAddress, encodedMemo string) (string, error) {
	if u.walletDg == nil {
		return "", errors.Wrap(errs.Unsupported, "wallet transfers are disabled")
	}
	if !memo.IsChainAddress(fromAddress) {
		return "", errors.Wrapf(errs.InvalidArgument, "from address %q must start with %q", fromAddress, memo.AddressPrefix)
	}

	txHash, err := u.walletDg.Transfer(ctx, datagateway.TransferParams{
		Asset:     runeAsset,
		From:      fromAddress,
		Recipient: u.config.ProtocolAddress,
		Amount: datagateway.TransferAmount{
			Amount:   transferBaseAmount,
			Decimals: transferDecimals,
		},
		Memo: encodedMemo,
	})
	if err != nil {
		// wallet errors are surfaced to the caller unmodified
		return "", errors.WithStack(err)
	}
	return txHash, nil
}
