// Package memo implements the colon-delimited memo grammars of the bond
// marketplace protocol.
//
// Two memo kinds exist, both led by the protocol tag:
//
//	listing:           TB:<nodeAddress>:<operatorAddress>:<minBond>:<maxBond>:<feePercentage>
//	whitelist request: TB:<nodeAddress>:<userAddress>:<amount>
//
// Encoding is strict and returns an error naming the first violated
// constraint. Decoding is permissive: any structural mismatch yields nil
// rather than an error, so unrelated traffic to the protocol address is
// silently skipped during registry construction.
package memo

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/thorbond/bond-indexer/common/errs"
)

const (
	// Tag is the protocol tag leading every memo. Load-bearing for decode.
	Tag = "TB"

	// AddressPrefix is the chain address prefix required of every address
	// field on the encode path.
	AddressPrefix = "thor"

	separator = ":"

	listingFieldCount          = 6
	whitelistRequestFieldCount = 4
)

var maxFeePercentage = decimal.NewFromInt(100)

// IsChainAddress reports whether addr passes the fixed address-prefix check.
func IsChainAddress(addr string) bool {
	return strings.HasPrefix(addr, AddressPrefix)
}

// Listing is a node operator's published bonding-service terms.
type Listing struct {
	NodeAddress     string
	OperatorAddress string
	MinBond         decimal.Decimal
	MaxBond         decimal.Decimal
	FeePercentage   decimal.Decimal
}

// String returns the canonical wire form of the listing memo.
func (l Listing) String() string {
	return strings.Join([]string{
		Tag,
		l.NodeAddress,
		l.OperatorAddress,
		l.MinBond.String(),
		l.MaxBond.String(),
		l.FeePercentage.String(),
	}, separator)
}

// EncodeListing validates the listing parameters and returns the canonical
// memo string. Validation failures name the first violated constraint.
func EncodeListing(l Listing) (string, error) {
	if !IsChainAddress(l.NodeAddress) {
		return "", errors.Wrapf(errs.InvalidArgument, "node address %q must start with %q", l.NodeAddress, AddressPrefix)
	}
	if !IsChainAddress(l.OperatorAddress) {
		return "", errors.Wrapf(errs.InvalidArgument, "operator address %q must start with %q", l.OperatorAddress, AddressPrefix)
	}
	if !l.MinBond.IsPositive() {
		return "", errors.Wrap(errs.InvalidArgument, "minimum bond must be positive")
	}
	if !l.MaxBond.GreaterThan(l.MinBond) {
		return "", errors.Wrap(errs.InvalidArgument, "maximum bond must exceed minimum bond")
	}
	if l.FeePercentage.IsNegative() || l.FeePercentage.GreaterThan(maxFeePercentage) {
		return "", errors.Wrap(errs.InvalidArgument, "fee percentage must be between 0 and 100")
	}
	return l.String(), nil
}

// DecodeListing decodes a listing memo. It returns nil on any structural
// mismatch: wrong field count, wrong tag, non-numeric numeric fields or
// out-of-range values. It never returns an error.
func DecodeListing(raw string) *Listing {
	fields := strings.Split(raw, separator)
	if len(fields) != listingFieldCount || fields[0] != Tag {
		return nil
	}
	minBond, err := decimal.NewFromString(fields[3])
	if err != nil {
		return nil
	}
	maxBond, err := decimal.NewFromString(fields[4])
	if err != nil {
		return nil
	}
	feePercentage, err := decimal.NewFromString(fields[5])
	if err != nil {
		return nil
	}
	if minBond.IsNegative() || !maxBond.GreaterThan(minBond) {
		return nil
	}
	if feePercentage.IsNegative() || feePercentage.GreaterThan(maxFeePercentage) {
		return nil
	}
	return &Listing{
		NodeAddress:     fields[1],
		OperatorAddress: fields[2],
		MinBond:         minBond,
		MaxBond:         maxBond,
		FeePercentage:   feePercentage,
	}
}

// WhitelistRequest is a user's declared intent to bond into a node's service.
type WhitelistRequest struct {
	NodeAddress string
	UserAddress string
	Amount      decimal.Decimal
}

// String returns the canonical wire form of the whitelist-request memo.
func (w WhitelistRequest) String() string {
	return strings.Join([]string{
		Tag,
		w.NodeAddress,
		w.UserAddress,
		w.Amount.String(),
	}, separator)
}

// EncodeWhitelistRequest validates the request parameters and returns the
// canonical memo string.
func EncodeWhitelistRequest(w WhitelistRequest) (string, error) {
	if !IsChainAddress(w.NodeAddress) {
		return "", errors.Wrapf(errs.InvalidArgument, "node address %q must start with %q", w.NodeAddress, AddressPrefix)
	}
	if !IsChainAddress(w.UserAddress) {
		return "", errors.Wrapf(errs.InvalidArgument, "user address %q must start with %q", w.UserAddress, AddressPrefix)
	}
	if !w.Amount.IsPositive() {
		return "", errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}
	return w.String(), nil
}

// DecodeWhitelistRequest decodes a whitelist-request memo. Same silent-skip
// policy as DecodeListing.
func DecodeWhitelistRequest(raw string) *WhitelistRequest {
	fields := strings.Split(raw, separator)
	if len(fields) != whitelistRequestFieldCount || fields[0] != Tag {
		return nil
	}
	amount, err := decimal.NewFromString(fields[3])
	if err != nil {
		return nil
	}
	if !amount.IsPositive() {
		return nil
	}
	return &WhitelistRequest{
		NodeAddress: fields[1],
		UserAddress: fields[2],
		Amount:      amount,
	}
}
