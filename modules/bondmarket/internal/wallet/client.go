// Package wallet implements the outgoing transfer gateway against a wallet
// daemon's HTTP interface.
package wallet

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/thorbond/bond-indexer/modules/bondmarket/datagateway"
	"github.com/thorbond/bond-indexer/pkg/httpclient"
)

const transferPath = "/transfer"

type Client struct {
	client *httpclient.Client
}

var _ datagateway.WalletDataGateway = (*Client)(nil)

func NewClient(baseURL string, config ...httpclient.Config) (*Client, error) {
	httpClient, err := httpclient.New(baseURL, config...)
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Client{client: httpClient}, nil
}

type transferResponse struct {
	TxHash string `json:"txHash"`
	Error  string `json:"error"`
}

// Transfer submits the transfer request and returns the resulting
// transaction hash. Wallet failures are surfaced to the caller unmodified.
func (c *Client) Transfer(ctx context.Context, params datagateway.TransferParams) (string, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return "", errors.Wrap(err, "can't marshal transfer params")
	}
	resp, err := c.client.Post(ctx, transferPath, httpclient.RequestOptions{Body: body})
	if err != nil {
		return "", errors.WithStack(err)
	}

	var result transferResponse
	if err := resp.UnmarshalBody(&result); err != nil {
		return "", errors.WithStack(err)
	}
	return txHashFromResponse(resp.StatusCode(), result)
}

func txHashFromResponse(statusCode int, result transferResponse) (string, error) {
	if statusCode < 200 || statusCode >= 300 || result.Error != "" {
		return "", errors.Newf("transfer rejected by wallet: %s", result.Error)
	}
	return result.TxHash, nil
}
