// mock-backend serves a fixture banking API for local development of the
// wallet core: two accounts, a canned transfer history, and echo-style
// account creation and transfer execution. Nothing here moves real money.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/logging"
)

type account struct {
	ID            uuid.UUID `json:"id"`
	Currency      string    `json:"currency"`
	Country       string    `json:"country"`
	Name          string    `json:"name"`
	AccountNumber *string   `json:"account_number"`
	IBAN          *string   `json:"iban"`
	Status        string    `json:"status"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type transfer struct {
	ID              uuid.UUID       `json:"id"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	SourceAmount    string          `json:"source_amount"`
	SourceCurrency  string          `json:"source_currency"`
	TargetAmount    string          `json:"target_amount"`
	TargetCurrency  string          `json:"target_currency"`
	Recipient       *recipient      `json:"recipient,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type recipient struct {
	Name          string `json:"name"`
	IBAN          string `json:"iban,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

type server struct {
	mu        sync.Mutex
	accounts  []account
	transfers []transfer
}

func main() {
	logging.Init("mock-backend", "info", os.Getenv("APP_ENV"))

	srv := newServer()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /v1/accounts", srv.handleListAccounts)
	mux.HandleFunc("POST /v1/accounts", srv.handleCreateAccount)
	mux.HandleFunc("GET /v1/accounts/{id}/balance", srv.handleBalance)
	mux.HandleFunc("GET /v1/transfers", srv.handleTransfers)
	mux.HandleFunc("POST /v1/transfers", srv.handleExecuteTransfer)

	addr := ":8081"
	slog.Info("mock backend started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newServer() *server {
	now := time.Now().UTC()
	eurIBAN := "DE82WALL0000453201"
	hnlNum := "0045320017"
	eur := account{
		ID: uuid.New(), Currency: "EUR", Country: "DE", Name: "Main EUR",
		IBAN: &eurIBAN, Status: "active", Balance: "1000.00", CreatedAt: now.Add(-90 * 24 * time.Hour),
	}
	hnl := account{
		ID: uuid.New(), Currency: "HNL", Country: "HN", Name: "Lempira",
		AccountNumber: &hnlNum, Status: "active", Balance: "25000", CreatedAt: now.Add(-30 * 24 * time.Hour),
	}

	transfers := []transfer{
		{
			ID: uuid.New(), SourceAccountID: eur.ID,
			SourceAmount: "-100.00", SourceCurrency: "EUR",
			TargetAmount: "2650.00", TargetCurrency: "HNL",
			Recipient: &recipient{Name: "Ana Reyes", IBAN: "HN54PISA00000001"},
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID: uuid.New(), SourceAccountID: eur.ID,
			SourceAmount: "-50.00", SourceCurrency: "EUR",
			TargetAmount: "1325.00", TargetCurrency: "HNL",
			Recipient: &recipient{Name: "Ana Reyes", IBAN: "HN54PISA00000001"},
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID: uuid.New(), SourceAccountID: eur.ID,
			SourceAmount: "-75.00", SourceCurrency: "EUR",
			TargetAmount: "75.00", TargetCurrency: "EUR",
			Reference: "Transfer to Luis Mejia",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: uuid.New(), SourceAccountID: hnl.ID,
			SourceAmount: "-500", SourceCurrency: "HNL",
			TargetAmount: "500", TargetCurrency: "HNL",
			Metadata: json.RawMessage(`{"recipientName":"Carla Flores","recipientIban":"HN21BAME00000007","isInternalUser":true}`),
			CreatedAt: now.Add(-6 * time.Hour),
		},
	}

	return &server{accounts: []account{eur, hnl}, transfers: transfers}
}

func (s *server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"accounts": s.accounts})
}

func (s *server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string `json:"currency"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Currency == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := account{
		ID: uuid.New(), Currency: req.Currency, Name: req.Name,
		Status: "active", Balance: "0", CreatedAt: time.Now().UTC(),
	}
	s.accounts = append(s.accounts, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *server) handleBalance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid account id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			writeJSON(w, http.StatusOK, map[string]any{"amount": a.Balance, "currency": a.Currency})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
}

func (s *server) handleTransfers(w http.ResponseWriter, r *http.Request) {
	limit, offset := paging(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.transfers)
	end := min(offset+limit, total)
	page := []transfer{}
	if offset < total {
		page = s.transfers[offset:end]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transfers":  page,
		"pagination": map[string]int{"limit": limit, "offset": offset, "total": total},
	})
}

func (s *server) handleExecuteTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceAccountID uuid.UUID `json:"source_account_id"`
		Amount          string    `json:"amount"`
		TargetCurrency  string    `json:"target_currency"`
		RecipientName   string    `json:"recipient_name"`
		RecipientIBAN   string    `json:"recipient_iban"`
		Reference       string    `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var source *account
	for i := range s.accounts {
		if s.accounts[i].ID == req.SourceAccountID {
			source = &s.accounts[i]
		}
	}
	if source == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
		return
	}

	t := transfer{
		ID:              uuid.New(),
		SourceAccountID: req.SourceAccountID,
		SourceAmount:    "-" + req.Amount,
		SourceCurrency:  source.Currency,
		TargetAmount:    req.Amount,
		TargetCurrency:  req.TargetCurrency,
		Recipient:       &recipient{Name: req.RecipientName, IBAN: req.RecipientIBAN},
		Reference:       req.Reference,
		CreatedAt:       time.Now().UTC(),
	}
	s.transfers = append([]transfer{t}, s.transfers...)
	writeJSON(w, http.StatusCreated, t)
}

func paging(r *http.Request) (limit, offset int) {
	limit, offset = 50, 0
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n >= 0 {
		offset = n
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
