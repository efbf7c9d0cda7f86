package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type GigStatus string

const (
	GigOpen     GigStatus = "open"
	GigAssigned GigStatus = "assigned"
)

func ValidGigStatus(s GigStatus) bool {
	switch s {
	case GigOpen, GigAssigned:
		return true
	default:
		return false
	}
}

type Gig struct {
	Id          string          `json:"id"`
	OwnerId     string          `json:"ownerId"`
	OwnerName   string          `json:"ownerName,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
	Status      GigStatus       `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"-"`
}
