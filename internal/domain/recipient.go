package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipientSummary is one entry of the derived "recent recipients" list.
// Key is the dedup identity: IBAN when known, else account number, else name.
type RecipientSummary struct {
	Key             string
	Name            string
	TargetCurrency  Currency
	SourceCurrency  Currency
	Country         string
	LastUsed        string // human-relative label, e.g. "2 days ago"
	LastUsedAt      time.Time
	LastAmount      decimal.Decimal
	IsFavorite      bool
	IsInternational bool
	TransferID      uuid.UUID
}
