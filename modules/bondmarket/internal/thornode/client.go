// Package thornode implements the bond-state oracle against the THORNode
// node-state API.
package thornode

import (
	"context"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/modules/bondmarket/datagateway"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
	"github.com/thorbond/bond-indexer/modules/bondmarket/memo"
	"github.com/thorbond/bond-indexer/pkg/httpclient"
)

const nodePath = "/thorchain/node"

type Client struct {
	client *httpclient.Client
}

var _ datagateway.BondInfoDataGateway = (*Client)(nil)

func NewClient(baseURL string, config ...httpclient.Config) (*Client, error) {
	httpClient, err := httpclient.New(baseURL, config...)
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Client{client: httpClient}, nil
}

type nodeResponse struct {
	BondProviders *bondProviders `json:"bond_providers"`
}

type bondProviders struct {
	Providers []bondProvider `json:"providers"`
}

type bondProvider struct {
	BondAddress string          `json:"bond_address"`
	Bond        decimal.Decimal `json:"bond"`
}

// GetBondInfo queries the node-state service for nodeAddress and reports
// whether userAddress is a recognized bond provider and its bonded amount.
// Both addresses are validated before any network access. A missing
// bond-provider list is treated as empty, not as an error.
func (c *Client) GetBondInfo(ctx context.Context, nodeAddress, userAddress string) (*entity.BondInfo, error) {
	if !memo.IsChainAddress(nodeAddress) {
		return nil, errors.Wrapf(errs.InvalidArgument, "node address %q must start with %q", nodeAddress, memo.AddressPrefix)
	}
	if !memo.IsChainAddress(userAddress) {
		return nil, errors.Wrapf(errs.InvalidArgument, "user address %q must start with %q", userAddress, memo.AddressPrefix)
	}

	resp, err := c.client.Get(ctx, path.Join(nodePath, nodeAddress), httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrapf(errs.FetchFailed, "failed to retrieve bond info: %v", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, errors.Wrapf(errs.FetchFailed, "failed to retrieve bond info: unexpected status code %d", resp.StatusCode())
	}

	var body nodeResponse
	if err := resp.UnmarshalBody(&body); err != nil {
		return nil, errors.Wrapf(errs.FetchFailed, "failed to retrieve bond info: %v", err)
	}

	info := bondInfoFromNode(body, userAddress)
	return &info, nil
}

func bondInfoFromNode(node nodeResponse, userAddress string) entity.BondInfo {
	info := entity.BondInfo{BondedAmount: decimal.Zero}
	if node.BondProviders == nil {
		return info
	}
	for _, provider := range node.BondProviders.Providers {
		if provider.BondAddress == userAddress {
			info.IsBondProvider = true
			info.BondedAmount = provider.Bond
			break
		}
	}
	return info
}
