package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidHired    BidStatus = "hired"
	BidRejected BidStatus = "rejected"
)

func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidPending, BidHired, BidRejected:
		return true
	default:
		return false
	}
}

type Bid struct {
	Id           string          `json:"id"`
	GigId        string          `json:"gigId"`
	GigTitle     string          `json:"gigTitle,omitempty"`
	FreelancerId string          `json:"freelancerId"`
	Message      string          `json:"message"`
	Price        decimal.Decimal `json:"price"`
	Status       BidStatus       `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"-"`
}

// HireResult is what a successful settlement hands back to the caller.
// The caller decides whether to forward it to the notifier; the settlement
// itself never talks to live connections.
type HireResult struct {
	Bid          Bid    `json:"bid"`
	GigTitle     string `json:"gigTitle"`
	FreelancerId string `json:"freelancerId"`
}
