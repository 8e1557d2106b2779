package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// Account builds an active account in the given currency.
func Account(currency domain.Currency, name string) domain.Account {
	iban := currency.Country() + "82WALL0000" + uuid.NewString()[:8]
	return domain.Account{
		ID:        uuid.New(),
		Currency:  currency,
		Country:   currency.Country(),
		Name:      name,
		IBAN:      &iban,
		Status:    domain.AccountStatusActive,
		CreatedAt: baseTime,
	}
}

// OutgoingTransfer builds an outgoing transfer with a structured recipient.
// amount is the positive magnitude; the record carries it negated.
func OutgoingTransfer(source, target domain.Currency, amount string, recipient, iban string, at time.Time) domain.TransferRecord {
	return domain.TransferRecord{
		ID:              uuid.New(),
		SourceAccountID: uuid.New(),
		SourceAmount:    decimal.RequireFromString(amount).Neg(),
		SourceCurrency:  source,
		TargetAmount:    decimal.RequireFromString(amount),
		TargetCurrency:  target,
		Recipient: &domain.TransferRecipient{
			Name: recipient,
			IBAN: iban,
		},
		CreatedAt: at,
	}
}

// IncomingTransfer builds a credit; derivation must ignore these.
func IncomingTransfer(currency domain.Currency, amount string, at time.Time) domain.TransferRecord {
	return domain.TransferRecord{
		ID:              uuid.New(),
		SourceAccountID: uuid.New(),
		SourceAmount:    decimal.RequireFromString(amount),
		SourceCurrency:  currency,
		TargetAmount:    decimal.RequireFromString(amount),
		TargetCurrency:  currency,
		CreatedAt:       at,
	}
}

// At returns the fixture base time shifted by d.
func At(d time.Duration) time.Time {
	return baseTime.Add(d)
}
