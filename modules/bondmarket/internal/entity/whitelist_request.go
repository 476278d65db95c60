package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type WhitelistStatus string

const (
	WhitelistStatusPending  WhitelistStatus = "pending"
	WhitelistStatusApproved WhitelistStatus = "approved"
	WhitelistStatusBonded   WhitelistStatus = "bonded"

	// WhitelistStatusRejected is terminal and only reached through an
	// external action, never from oracle state alone.
	WhitelistStatusRejected WhitelistStatus = "rejected"
)

func (s WhitelistStatus) String() string {
	return string(s)
}

// WhitelistRequest is a view object derived fresh on every reconciliation
// call; it is never persisted.
type WhitelistRequest struct {
	Node               Node
	WalletAddress      string
	IntendedBondAmount decimal.Decimal
	Status             WhitelistStatus
	CreatedAt          time.Time
	RejectionReason    string
}
