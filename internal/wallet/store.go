// Package wallet owns the client-side financial state: the account
// directory, the active selection, and the per-account balance cache. The
// store is the single writer; UI readers get copies. Backend failures are
// recorded on the store instead of propagated, so screens render an error
// state rather than crash. Account creation is the one exception, where the
// caller is mid-form and needs the failure synchronously.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/api"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/favorites"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/logging"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/storage"
)

// User-facing error strings shared by the account/balance operations.
const (
	errMsgBackend           = "Something went wrong. Please try again."
	errMsgNoAccountSelected = "No account selected."
	errMsgAccountNotFound   = "Account not found."
)

// Backend is the slice of the banking API the store consumes.
type Backend interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccountBalance(ctx context.Context, accountID uuid.UUID) (*domain.Balance, error)
	CreateAccount(ctx context.Context, currency domain.Currency, name string) (*domain.Account, error)
	ExecuteTransfer(ctx context.Context, req api.TransferRequest) (*domain.TransferRecord, error)
}

type Store struct {
	mu sync.Mutex

	backend   Backend
	kv        storage.KeyValue
	favorites *favorites.Registry

	userID      string
	accounts    []domain.Account
	selectedID  uuid.UUID // uuid.Nil when nothing is selected
	current     *domain.Balance
	cache       map[uuid.UUID]domain.Balance
	loading     map[uuid.UUID]bool
	loadingDir  bool
	initialized bool
	errMsg      string

	// session is bumped by every identity reset; balGen per account on each
	// balance invalidation. An async completion that captured older values
	// is dropped instead of applied to state that has since been wiped or
	// re-invalidated. Refreshes for different accounts do not interfere.
	session uint64
	balGen  map[uuid.UUID]uint64

	log *slog.Logger
}

func NewStore(backend Backend, kv storage.KeyValue, favs *favorites.Registry) *Store {
	return &Store{
		backend:   backend,
		kv:        kv,
		favorites: favs,
		cache:     make(map[uuid.UUID]domain.Balance),
		loading:   make(map[uuid.UUID]bool),
		balGen:    make(map[uuid.UUID]uint64),
		log:       slog.Default(),
	}
}

// LoadAccounts replaces the account directory with the backend's list.
// Selection survives when its id is still present; otherwise it falls back
// to the first account, or none. The store becomes initialized whether or
// not the call succeeds, so the UI never spins forever; on failure the prior
// directory is kept and the error recorded.
func (s *Store) LoadAccounts(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	s.loadingDir = true
	sess := s.session
	s.mu.Unlock()

	accounts, err := s.backend.ListAccounts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != sess {
		// Identity changed while the list was in flight; the previous
		// user's directory must not reach the new session.
		log.Debug("dropping account load from a previous session")
		return
	}
	s.loadingDir = false
	s.initialized = true

	if err != nil {
		log.Error("account load failed", "error", err)
		s.errMsg = errMsgBackend
		s.persistLocked()
		return
	}

	s.accounts = accounts
	s.errMsg = ""

	if !s.hasAccountLocked(s.selectedID) {
		if len(accounts) > 0 {
			s.selectedID = accounts[0].ID
		} else {
			s.selectedID = uuid.Nil
		}
		s.syncCurrentLocked()
	}
	s.persistLocked()
}

// SelectAccount switches the active account. Unknown ids are ignored. The
// "current" balance immediately becomes the cached value for the newly
// selected account, or none. It must never keep showing the previous
// account's number.
func (s *Store) SelectAccount(accountID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasAccountLocked(accountID) {
		return
	}
	s.selectedID = accountID
	s.syncCurrentLocked()
	s.persistLocked()
}

// CreateAccount opens a new account with the backend and appends it to the
// directory. Unlike the other operations, a failure is both recorded and
// returned: the caller sits on a submission form and reacts synchronously.
func (s *Store) CreateAccount(ctx context.Context, currency domain.Currency, name string) (*domain.Account, error) {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	account, err := s.backend.CreateAccount(ctx, currency, name)
	if err != nil {
		s.mu.Lock()
		if s.session == sess {
			s.errMsg = errMsgBackend
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != sess {
		// The account exists at the backend, but it was opened by the
		// identity that started the call; the new session stays untouched.
		return account, nil
	}
	s.accounts = append(s.accounts, *account)
	s.errMsg = ""
	if s.selectedID == uuid.Nil {
		s.selectedID = account.ID
		s.syncCurrentLocked()
	}
	s.persistLocked()
	return account, nil
}

// Accounts returns a copy of the account directory.
func (s *Store) Accounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Selected returns the active account, or nil.
func (s *Store) Selected() *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.findLocked(s.selectedID); a != nil {
		cp := *a
		return &cp
	}
	return nil
}

func (s *Store) SelectedID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// CurrentBalance returns the loaded balance of the selected account, or nil
// while none is loaded.
func (s *Store) CurrentBalance() *domain.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// IsLoading reports whether a balance refresh is in flight for accountID.
func (s *Store) IsLoading(accountID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[accountID]
}

// LoadingAccounts reports whether a directory load is in flight.
func (s *Store) LoadingAccounts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingDir
}

func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Store) findLocked(id uuid.UUID) *domain.Account {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

func (s *Store) hasAccountLocked(id uuid.UUID) bool {
	return id != uuid.Nil && s.findLocked(id) != nil
}

// syncCurrentLocked re-points the "current" balance at the cache entry for
// the active selection, or clears it.
func (s *Store) syncCurrentLocked() {
	if bal, ok := s.cache[s.selectedID]; ok {
		cp := bal
		s.current = &cp
		return
	}
	s.current = nil
}
