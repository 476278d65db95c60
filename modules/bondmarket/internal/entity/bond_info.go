package entity

import "github.com/shopspring/decimal"

// BondInfo is the live bond state of one (node, user) pair. Fetched per
// query; never cached across reconciliation batches.
type BondInfo struct {
	IsBondProvider bool
	BondedAmount   decimal.Decimal
}
