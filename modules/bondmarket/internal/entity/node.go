package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Node is a materialized bonding-service listing. Exactly one Node exists
// per distinct NodeAddress; the first qualifying action in feed order wins.
type Node struct {
	OperatorAddress string
	NodeAddress     string
	BondingCapacity decimal.Decimal
	MinimumBond     decimal.Decimal
	FeePercentage   decimal.Decimal
	CreatedAt       time.Time
}
