package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/api"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/logging"
)

// RefreshBalance fetches a fresh balance for accountID, or for the current
// selection when accountID is uuid.Nil. The cache entry is dropped before
// the round-trip starts, so no reader ever sees the old number while the
// fetch is in flight. On failure the slot stays empty; a value is never
// fabricated.
func (s *Store) RefreshBalance(ctx context.Context, accountID uuid.UUID) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	target := accountID
	if target == uuid.Nil {
		target = s.selectedID
	}
	if target == uuid.Nil {
		s.errMsg = errMsgNoAccountSelected
		s.mu.Unlock()
		log.Warn("balance refresh without a target", "error", domain.ErrNoAccountSelected)
		return
	}

	// Invalidate before the network call.
	delete(s.cache, target)
	if target == s.selectedID {
		s.current = nil
	}
	s.loading[target] = true
	s.balGen[target]++
	gen := s.balGen[target]
	sess := s.session
	s.mu.Unlock()

	bal, err := s.backend.GetAccountBalance(ctx, target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != sess || s.balGen[target] != gen {
		// The session was reset or a newer refresh invalidated this account
		// while the fetch was in flight; this completion no longer has a
		// home. The loading flag stays with whichever fetch owns it now.
		log.Debug("dropping stale balance completion", "account_id", target)
		return
	}
	delete(s.loading, target)

	if err != nil {
		log.Error("balance refresh failed", "account_id", target, "error", err)
		s.errMsg = errMsgBackend
		return
	}

	s.errMsg = ""
	s.cache[target] = *bal
	if target == s.selectedID {
		cp := *bal
		s.current = &cp
	}
}

// GetAccountBalance is a pure read: the current balance when accountID is
// the selection and a value is loaded, else the cache entry, else nil. It
// never triggers a network call.
func (s *Store) GetAccountBalance(accountID uuid.UUID) *domain.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()

	if accountID == s.selectedID && s.current != nil {
		cp := *s.current
		return &cp
	}
	if bal, ok := s.cache[accountID]; ok {
		cp := bal
		return &cp
	}
	return nil
}

// UpdateAccountBalance applies a local optimistic balance after a completed
// transfer. The account record, the current-balance mirror, and the cache
// entry move together in one transition so every view agrees immediately.
func (s *Store) UpdateAccountBalance(accountID uuid.UUID, newAmount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.findLocked(accountID)
	if account == nil {
		s.errMsg = errMsgAccountNotFound
		s.log.Warn("optimistic update for unknown account", "account_id", accountID, "error", domain.ErrAccountNotFound)
		return
	}

	account.Balance = newAmount
	bal := domain.Balance{
		Amount:    newAmount,
		Currency:  account.Currency,
		FetchedAt: time.Now().UTC(),
	}
	s.cache[accountID] = bal
	if accountID == s.selectedID {
		cp := bal
		s.current = &cp
	}
	s.persistLocked()
}

// ExecuteTransfer submits a remittance order and, on success, applies the
// optimistic balance update for the source account when its balance is
// known. The eventual RefreshBalance reconciles with the backend.
func (s *Store) ExecuteTransfer(ctx context.Context, req api.TransferRequest) (*domain.TransferRecord, error) {
	transfer, err := s.backend.ExecuteTransfer(ctx, req)
	if err != nil {
		s.mu.Lock()
		s.errMsg = errMsgBackend
		s.mu.Unlock()
		return nil, fmt.Errorf("ExecuteTransfer: %w", err)
	}

	if bal := s.GetAccountBalance(req.SourceAccountID); bal != nil {
		s.UpdateAccountBalance(req.SourceAccountID, bal.Amount.Sub(req.Amount))
	}
	return transfer, nil
}
