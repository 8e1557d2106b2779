package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/api"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/testutil"
)

func balanceOf(amount string, currency domain.Currency) domain.Balance {
	return domain.Balance{
		Amount:    decimal.RequireFromString(amount),
		Currency:  currency,
		FetchedAt: testutil.At(0),
	}
}

func TestRefreshBalanceInvalidatesBeforeFetch(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	backend := &fakeBackend{
		accounts: []domain.Account{eur},
		balances: map[uuid.UUID]domain.Balance{eur.ID: balanceOf("1000.00", domain.CurrencyEUR)},
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)

	// Seed the cache, then hold the second fetch open at the gate.
	store.RefreshBalance(ctx, eur.ID)
	require.NotNil(t, store.GetAccountBalance(eur.ID))

	gate := make(chan struct{})
	backend.mu.Lock()
	backend.gate = gate
	backend.mu.Unlock()

	done := make(chan struct{})
	go func() {
		store.RefreshBalance(ctx, eur.ID)
		close(done)
	}()

	// The old number must be gone while the fetch is in flight.
	require.Eventually(t, func() bool { return store.IsLoading(eur.ID) }, time.Second, time.Millisecond)
	assert.Nil(t, store.GetAccountBalance(eur.ID))
	assert.Nil(t, store.CurrentBalance())

	close(gate)
	<-done

	got := store.GetAccountBalance(eur.ID)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("1000.00")))
	assert.False(t, store.IsLoading(eur.ID))
}

func TestRefreshBalanceNoSelection(t *testing.T) {
	backend := &fakeBackend{}
	store, _ := newTestStore(t, backend)

	store.RefreshBalance(context.Background(), uuid.Nil)

	assert.Equal(t, errMsgNoAccountSelected, store.Err())
	assert.Zero(t, backend.balanceCalls, "no round-trip without a resolvable target")
}

func TestRefreshBalanceFailureLeavesSlotUnset(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	backend := &fakeBackend{
		accounts:   []domain.Account{eur},
		balanceErr: errBackendDown,
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)

	store.RefreshBalance(ctx, eur.ID)

	assert.Nil(t, store.GetAccountBalance(eur.ID), "a value must never be fabricated")
	assert.Nil(t, store.CurrentBalance())
	assert.NotEmpty(t, store.Err())
	assert.False(t, store.IsLoading(eur.ID))
}

// The §8-style walkthrough: EUR has a cached balance, HNL has none. Selecting
// HNL shows nothing until its refresh lands; switching back to EUR serves the
// cached number without a new round-trip.
func TestBalanceCachePerAccountScenario(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	hnl := testutil.Account(domain.CurrencyHNL, "Lempira")
	backend := &fakeBackend{
		accounts: []domain.Account{eur, hnl},
		balances: map[uuid.UUID]domain.Balance{
			eur.ID: balanceOf("1000.00", domain.CurrencyEUR),
			hnl.ID: balanceOf("25000", domain.CurrencyHNL),
		},
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)

	store.RefreshBalance(ctx, eur.ID)
	callsAfterEUR := backend.balanceCalls

	store.SelectAccount(hnl.ID)
	assert.Nil(t, store.GetAccountBalance(hnl.ID))
	assert.Nil(t, store.CurrentBalance(), "previous account's number must not linger")

	store.RefreshBalance(ctx, hnl.ID)
	hnlBal := store.CurrentBalance()
	require.NotNil(t, hnlBal)
	assert.True(t, hnlBal.Amount.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, domain.CurrencyHNL, hnlBal.Currency)

	store.SelectAccount(eur.ID)
	eurBal := store.CurrentBalance()
	require.NotNil(t, eurBal)
	assert.True(t, eurBal.Amount.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, callsAfterEUR+1, backend.balanceCalls, "switching back must not re-fetch")
}

func TestUpdateAccountBalanceAtomicViews(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	backend := &fakeBackend{
		accounts: []domain.Account{eur},
		balances: map[uuid.UUID]domain.Balance{eur.ID: balanceOf("1000.00", domain.CurrencyEUR)},
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)
	store.RefreshBalance(ctx, eur.ID)

	newAmount := decimal.RequireFromString("900.00")
	store.UpdateAccountBalance(eur.ID, newAmount)

	account := store.Selected()
	require.NotNil(t, account)
	assert.True(t, account.Balance.Equal(newAmount), "account record view")

	current := store.CurrentBalance()
	require.NotNil(t, current)
	assert.True(t, current.Amount.Equal(newAmount), "current balance view")

	cached := store.GetAccountBalance(eur.ID)
	require.NotNil(t, cached)
	assert.True(t, cached.Amount.Equal(newAmount), "cache entry view")
}

func TestUpdateAccountBalanceUnknownAccount(t *testing.T) {
	backend := &fakeBackend{}
	store, _ := newTestStore(t, backend)

	store.UpdateAccountBalance(uuid.New(), decimal.NewFromInt(1))
	assert.Equal(t, errMsgAccountNotFound, store.Err())
}

func TestExecuteTransferAppliesOptimisticUpdate(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	backend := &fakeBackend{
		accounts: []domain.Account{eur},
		balances: map[uuid.UUID]domain.Balance{eur.ID: balanceOf("1000.00", domain.CurrencyEUR)},
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)
	store.RefreshBalance(ctx, eur.ID)

	transfer, err := store.ExecuteTransfer(ctx, api.TransferRequest{
		SourceAccountID: eur.ID,
		Amount:          decimal.RequireFromString("100.00"),
		TargetCurrency:  domain.CurrencyHNL,
		RecipientName:   "Ana Reyes",
	})
	require.NoError(t, err)
	require.NotNil(t, transfer)

	current := store.CurrentBalance()
	require.NotNil(t, current)
	assert.True(t, current.Amount.Equal(decimal.RequireFromString("900.00")))
}

func TestExecuteTransferFailureRecordsError(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	backend := &fakeBackend{
		accounts:    []domain.Account{eur},
		balances:    map[uuid.UUID]domain.Balance{eur.ID: balanceOf("1000.00", domain.CurrencyEUR)},
		transferErr: errBackendDown,
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)
	store.RefreshBalance(ctx, eur.ID)

	_, err := store.ExecuteTransfer(ctx, api.TransferRequest{
		SourceAccountID: eur.ID,
		Amount:          decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, errBackendDown)
	assert.NotEmpty(t, store.Err())

	current := store.CurrentBalance()
	require.NotNil(t, current)
	assert.True(t, current.Amount.Equal(decimal.RequireFromString("1000.00")), "no optimistic update on failure")
}

func TestOverlappingRefreshesDifferentAccounts(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	hnl := testutil.Account(domain.CurrencyHNL, "Lempira")
	gate := make(chan struct{})
	backend := &fakeBackend{
		accounts: []domain.Account{eur, hnl},
		balances: map[uuid.UUID]domain.Balance{
			eur.ID: balanceOf("1000.00", domain.CurrencyEUR),
			hnl.ID: balanceOf("25000", domain.CurrencyHNL),
		},
		gate: gate,
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)

	var wg sync.WaitGroup
	for _, id := range []uuid.UUID{eur.ID, hnl.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.RefreshBalance(ctx, id)
		}()
	}
	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return backend.balanceCalls == 2
	}, time.Second, time.Millisecond)

	close(gate)
	wg.Wait()

	// One account's fetch must not invalidate the other's completion.
	eurBal := store.GetAccountBalance(eur.ID)
	require.NotNil(t, eurBal)
	assert.True(t, eurBal.Amount.Equal(decimal.RequireFromString("1000.00")))
	hnlBal := store.GetAccountBalance(hnl.ID)
	require.NotNil(t, hnlBal)
	assert.True(t, hnlBal.Amount.Equal(decimal.NewFromInt(25000)))
	assert.False(t, store.IsLoading(eur.ID))
	assert.False(t, store.IsLoading(hnl.ID))
}

func TestStaleCompletionDroppedAfterReset(t *testing.T) {
	eur := testutil.Account(domain.CurrencyEUR, "Main EUR")
	backend := &fakeBackend{
		accounts: []domain.Account{eur},
		balances: map[uuid.UUID]domain.Balance{eur.ID: balanceOf("1000.00", domain.CurrencyEUR)},
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()
	store.LoadAccounts(ctx)

	gate := make(chan struct{})
	backend.mu.Lock()
	backend.gate = gate
	backend.mu.Unlock()

	done := make(chan struct{})
	go func() {
		store.RefreshBalance(ctx, eur.ID)
		close(done)
	}()
	require.Eventually(t, func() bool { return store.IsLoading(eur.ID) }, time.Second, time.Millisecond)

	// Identity changes while the fetch is in flight.
	store.SetUserID("user-b")

	close(gate)
	<-done

	assert.Nil(t, store.GetAccountBalance(eur.ID), "completion from the old session must not land")
	assert.Nil(t, store.CurrentBalance())
}
