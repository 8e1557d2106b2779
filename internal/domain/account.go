package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyHNL Currency = "HNL"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyHNL:
		return true
	}
	return false
}

// Country returns the ISO country code an account in this currency belongs to.
// Used to derive the international flag on recipients.
func (c Currency) Country() string {
	switch c {
	case CurrencyEUR:
		return "DE"
	case CurrencyUSD:
		return "US"
	case CurrencyGBP:
		return "GB"
	case CurrencyHNL:
		return "HN"
	}
	return ""
}

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusFrozen AccountStatus = "frozen"
	AccountStatusClosed AccountStatus = "closed"
)

type Account struct {
	ID            uuid.UUID
	Currency      Currency
	Country       string
	Name          string
	AccountNumber *string
	IBAN          *string
	Status        AccountStatus
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

// Number returns the identifier shown to the user: IBAN when present,
// else the plain account number.
func (a *Account) Number() string {
	if a.IBAN != nil && *a.IBAN != "" {
		return *a.IBAN
	}
	if a.AccountNumber != nil {
		return *a.AccountNumber
	}
	return ""
}

// Balance is a cached point-in-time balance for one account. It lives only
// in memory; it is never written to the durable snapshot.
type Balance struct {
	Amount    decimal.Decimal
	Currency  Currency
	FetchedAt time.Time
}
