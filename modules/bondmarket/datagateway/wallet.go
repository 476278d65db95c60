package datagateway

import "context"

type TransferAsset struct {
	Chain  string `json:"chain"`
	Symbol string `json:"symbol"`
	Ticker string `json:"ticker"`
}

type TransferAmount struct {
	Amount   int64 `json:"amount"`
	Decimals int   `json:"decimals"`
}

type TransferParams struct {
	Asset     TransferAsset  `json:"asset"`
	From      string         `json:"from"`
	Recipient string         `json:"recipient"`
	Amount    TransferAmount `json:"amount"`
	Memo      string         `json:"memo"`
}

// WalletDataGateway submits an outgoing transfer carrying a protocol memo.
// Failures are surfaced to the caller unmodified.
type WalletDataGateway interface {
	Transfer(ctx context.Context, params TransferParams) (string, error)
}
