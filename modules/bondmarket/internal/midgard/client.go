// Package midgard implements the action ingestor against the Midgard
// transaction-history API.
package midgard

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/thorbond/bond-indexer/common/errs"
	"github.com/thorbond/bond-indexer/modules/bondmarket/datagateway"
	"github.com/thorbond/bond-indexer/modules/bondmarket/internal/entity"
	"github.com/thorbond/bond-indexer/pkg/httpclient"
)

const actionsPath = "/v2/actions"

type Client struct {
	client *httpclient.Client
}

var _ datagateway.ActionDataGateway = (*Client)(nil)

func NewClient(baseURL string, config ...httpclient.Config) (*Client, error) {
	httpClient, err := httpclient.New(baseURL, config...)
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Client{client: httpClient}, nil
}

type actionsResponse struct {
	Actions []action `json:"actions"`
}

type action struct {
	Type     string          `json:"type"`
	Date     string          `json:"date"` // nanoseconds since epoch
	Height   string          `json:"height"`
	In       json.RawMessage `json:"in"`
	Out      json.RawMessage `json:"out"`
	Pools    []string        `json:"pools"`
	Status   string          `json:"status"`
	Metadata json.RawMessage `json:"metadata"`
}

type actionMetadata struct {
	Send *sendMetadata `json:"send"`
}

type sendMetadata struct {
	Code        string          `json:"code"`
	Memo        string          `json:"memo"`
	NetworkFees json.RawMessage `json:"networkFees"`
	Reason      string          `json:"reason"`
}

// GetActions issues one bounded query against the action-history API and
// maps each entry to an internal action record. Only the requested page is
// fetched; this is a deliberate window, not a full-history scan.
func (c *Client) GetActions(ctx context.Context, params datagateway.GetActionsParams) ([]entity.Action, error) {
	query := url.Values{
		"address": {params.Address},
		"limit":   {strconv.Itoa(params.Limit)},
		"offset":  {strconv.Itoa(params.Offset)},
		"type":    {params.Type},
	}
	resp, err := c.client.Get(ctx, actionsPath, httpclient.RequestOptions{Query: query})
	if err != nil {
		return nil, errors.Wrapf(errs.FetchFailed, "failed to retrieve actions: %v", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, errors.Wrapf(errs.FetchFailed, "failed to retrieve actions: unexpected status code %d", resp.StatusCode())
	}

	var body actionsResponse
	if err := resp.UnmarshalBody(&body); err != nil {
		return nil, errors.Wrapf(errs.FetchFailed, "failed to retrieve actions: %v", err)
	}

	actions := make([]entity.Action, 0, len(body.Actions))
	for _, raw := range body.Actions {
		mapped, err := mapAction(raw)
		if err != nil {
			return nil, errors.Wrap(err, "can't map action")
		}
		actions = append(actions, mapped)
	}
	return actions, nil
}

func mapAction(raw action) (entity.Action, error) {
	dateNanos, err := strconv.ParseInt(raw.Date, 10, 64)
	if err != nil {
		return entity.Action{}, errors.Wrapf(err, "can't parse action date %q", raw.Date)
	}
	var height int64
	if raw.Height != "" {
		height, err = strconv.ParseInt(raw.Height, 10, 64)
		if err != nil {
			return entity.Action{}, errors.Wrapf(err, "can't parse action height %q", raw.Height)
		}
	}
	return entity.Action{
		Type:      raw.Type,
		DateNanos: dateNanos,
		Height:    height,
		Memo:      extractMemo(raw.Metadata),
		Inputs:    raw.In,
		Outputs:   raw.Out,
		Pools:     raw.Pools,
		Status:    raw.Status,
		Metadata:  raw.Metadata,
	}, nil
}

// extractMemo pulls the send memo out of the nested action metadata.
// Returns empty if the metadata carries no send section.
func extractMemo(metadata json.RawMessage) string {
	if len(metadata) == 0 {
		return ""
	}
	var parsed actionMetadata
	if err := json.Unmarshal(metadata, &parsed); err != nil {
		return ""
	}
	return lo.FromPtr(parsed.Send).Memo
}
