package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferRecipient is the structured recipient attached to a transfer when
// the backend knows who the money went to.
type TransferRecipient struct {
	Name          string
	IBAN          string
	AccountNumber string
}

// TransferRecord is one row of the backend's transfer history. The core only
// reads these; it never mutates or persists them.
type TransferRecord struct {
	ID              uuid.UUID
	SourceAccountID uuid.UUID
	SourceAmount    decimal.Decimal // signed; negative for outgoing
	SourceCurrency  Currency
	TargetAmount    decimal.Decimal
	TargetCurrency  Currency
	Recipient       *TransferRecipient
	Reference       string
	Metadata        string // opaque JSON blob, best-effort parsed
	CreatedAt       time.Time
}

// Outgoing reports whether the transfer moved money out of the source account.
func (t *TransferRecord) Outgoing() bool {
	return t.SourceAmount.IsNegative()
}
