package wallet

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/storage"
)

const snapshotKey = "wallet:snapshot"

// snapshotAccount is the persisted projection of an account. Balances are
// deliberately absent: they are re-fetched every launch and never trusted
// stale across restarts.
type snapshotAccount struct {
	ID            uuid.UUID            `json:"id"`
	Currency      domain.Currency      `json:"currency"`
	Country       string               `json:"country"`
	Name          string               `json:"name"`
	AccountNumber *string              `json:"accountNumber,omitempty"`
	IBAN          *string              `json:"iban,omitempty"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type snapshot struct {
	Accounts    []snapshotAccount `json:"accounts"`
	SelectedID  string            `json:"selectedId"`
	Initialized bool              `json:"initialized"`
	UserID      string            `json:"userId"`
}

// SetUserID reacts to the identity collaborator. A changed identity is a
// session boundary: every piece of in-memory and durable financial state
// from the previous user is destroyed before the new id is adopted.
func (s *Store) SetUserID(userID string) {
	s.mu.Lock()
	previous := s.userID
	if previous == userID {
		s.mu.Unlock()
		return
	}

	if previous != "" {
		s.accounts = nil
		s.selectedID = uuid.Nil
		s.current = nil
		s.cache = make(map[uuid.UUID]domain.Balance)
		s.loading = make(map[uuid.UUID]bool)
		s.loadingDir = false
		s.initialized = false
		s.errMsg = ""
		s.session++
		s.balGen = make(map[uuid.UUID]uint64)

		if err := s.kv.RemoveItem(snapshotKey); err != nil {
			s.log.Warn("snapshot wipe failed", "error", err)
		}
	}
	s.userID = userID
	s.mu.Unlock()

	if previous != "" && s.favorites != nil {
		s.favorites.Wipe(previous)
	}
	if s.favorites != nil {
		s.favorites.Load(userID)
	}
}

// Hydrate restores the persisted snapshot. Called once at startup, before
// first use. Any failure is logged and treated as "no prior state".
func (s *Store) Hydrate() {
	raw, err := s.kv.GetItem(snapshotKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNoItem) {
			s.log.Warn("snapshot read failed, starting fresh", "error", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.Warn("snapshot corrupt, starting fresh", "error", err)
		return
	}

	s.mu.Lock()
	s.accounts = make([]domain.Account, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		s.accounts = append(s.accounts, domain.Account{
			ID:            a.ID,
			Currency:      a.Currency,
			Country:       a.Country,
			Name:          a.Name,
			AccountNumber: a.AccountNumber,
			IBAN:          a.IBAN,
			Status:        a.Status,
			CreatedAt:     a.CreatedAt,
		})
	}

	s.selectedID = uuid.Nil
	if id, err := uuid.Parse(snap.SelectedID); err == nil && s.hasAccountLocked(id) {
		s.selectedID = id
	}
	s.initialized = snap.Initialized
	s.userID = snap.UserID
	s.mu.Unlock()

	if s.favorites != nil && snap.UserID != "" {
		s.favorites.Load(snap.UserID)
	}
}

// persistLocked writes the restricted snapshot tuple. Persistence is
// fire-and-forget relative to the in-memory transition: a write failure is
// logged and swallowed, since selection and directory are reconstructible.
func (s *Store) persistLocked() {
	snap := snapshot{
		Accounts:    make([]snapshotAccount, 0, len(s.accounts)),
		Initialized: s.initialized,
		UserID:      s.userID,
	}
	for _, a := range s.accounts {
		snap.Accounts = append(snap.Accounts, snapshotAccount{
			ID:            a.ID,
			Currency:      a.Currency,
			Country:       a.Country,
			Name:          a.Name,
			AccountNumber: a.AccountNumber,
			IBAN:          a.IBAN,
			Status:        a.Status,
			CreatedAt:     a.CreatedAt,
		})
	}
	if s.selectedID != uuid.Nil {
		snap.SelectedID = s.selectedID.String()
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn("snapshot marshal failed", "error", err)
		return
	}
	if err := s.kv.SetItem(snapshotKey, string(raw)); err != nil {
		s.log.Warn("snapshot write failed", "error", err)
	}
}
