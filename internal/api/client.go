package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
	"github.com/DanisAlfonso/remittance-app-sub000/internal/logging"
)

// Client talks to the banking backend. It owns none of the transport
// concerns beyond a timeout; retries and auth headers are attached by the
// surrounding app shell.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type accountPayload struct {
	ID            uuid.UUID  `json:"id"`
	Currency      string     `json:"currency"`
	Country       string     `json:"country"`
	Name          string     `json:"name"`
	AccountNumber *string    `json:"account_number"`
	IBAN          *string    `json:"iban"`
	Status        string     `json:"status"`
	Balance       flexAmount `json:"balance"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (p *accountPayload) toDomain() domain.Account {
	return domain.Account{
		ID:            p.ID,
		Currency:      domain.Currency(p.Currency),
		Country:       p.Country,
		Name:          p.Name,
		AccountNumber: p.AccountNumber,
		IBAN:          p.IBAN,
		Status:        domain.AccountStatus(p.Status),
		Balance:       p.Balance.Decimal,
		CreatedAt:     p.CreatedAt,
	}
}

type balancePayload struct {
	Amount   flexAmount `json:"amount"`
	Currency string     `json:"currency"`
}

type recipientPayload struct {
	Name          string `json:"name"`
	IBAN          string `json:"iban"`
	AccountNumber string `json:"account_number"`
}

type transferPayload struct {
	ID              uuid.UUID         `json:"id"`
	SourceAccountID uuid.UUID         `json:"source_account_id"`
	SourceAmount    flexAmount        `json:"source_amount"`
	SourceCurrency  string            `json:"source_currency"`
	TargetAmount    flexAmount        `json:"target_amount"`
	TargetCurrency  string            `json:"target_currency"`
	Recipient       *recipientPayload `json:"recipient"`
	Reference       string            `json:"reference"`
	Metadata        json.RawMessage   `json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (p *transferPayload) toDomain() domain.TransferRecord {
	t := domain.TransferRecord{
		ID:              p.ID,
		SourceAccountID: p.SourceAccountID,
		SourceAmount:    p.SourceAmount.Decimal,
		SourceCurrency:  domain.Currency(p.SourceCurrency),
		TargetAmount:    p.TargetAmount.Decimal,
		TargetCurrency:  domain.Currency(p.TargetCurrency),
		Reference:       p.Reference,
		Metadata:        string(p.Metadata),
		CreatedAt:       p.CreatedAt,
	}
	if p.Recipient != nil {
		t.Recipient = &domain.TransferRecipient{
			Name:          p.Recipient.Name,
			IBAN:          p.Recipient.IBAN,
			AccountNumber: p.Recipient.AccountNumber,
		}
	}
	return t
}

// Pagination mirrors the backend's paging envelope.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// TransferPage is one page of transfer history.
type TransferPage struct {
	Transfers  []domain.TransferRecord
	Pagination Pagination
}

func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var payload struct {
		Accounts []accountPayload `json:"accounts"`
	}
	if err := c.get(ctx, "/v1/accounts", &payload); err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(payload.Accounts))
	for i := range payload.Accounts {
		accounts = append(accounts, payload.Accounts[i].toDomain())
	}
	return accounts, nil
}

func (c *Client) GetAccountBalance(ctx context.Context, accountID uuid.UUID) (*domain.Balance, error) {
	var payload balancePayload
	if err := c.get(ctx, "/v1/accounts/"+accountID.String()+"/balance", &payload); err != nil {
		return nil, fmt.Errorf("GetAccountBalance: %w", err)
	}
	return &domain.Balance{
		Amount:    payload.Amount.Decimal,
		Currency:  domain.Currency(payload.Currency),
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) CreateAccount(ctx context.Context, currency domain.Currency, name string) (*domain.Account, error) {
	if !currency.IsValid() {
		return nil, fmt.Errorf("CreateAccount: %s: %w", currency, domain.ErrInvalidCurrency)
	}

	body := map[string]string{"currency": string(currency), "name": name}
	var payload accountPayload
	if err := c.post(ctx, "/v1/accounts", body, &payload); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}
	account := payload.toDomain()
	return &account, nil
}

func (c *Client) Transfers(ctx context.Context, limit, offset int) (*TransferPage, error) {
	var payload struct {
		Transfers  []transferPayload `json:"transfers"`
		Pagination Pagination        `json:"pagination"`
	}
	path := fmt.Sprintf("/v1/transfers?limit=%d&offset=%d", limit, offset)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("Transfers: %w", err)
	}

	page := &TransferPage{
		Transfers:  make([]domain.TransferRecord, 0, len(payload.Transfers)),
		Pagination: payload.Pagination,
	}
	for i := range payload.Transfers {
		page.Transfers = append(page.Transfers, payload.Transfers[i].toDomain())
	}
	return page, nil
}

// AllTransfers walks the paginated history until the backend reports no more
// rows. The derivation engine needs the full outgoing history, not a page.
func (c *Client) AllTransfers(ctx context.Context, pageSize int) ([]domain.TransferRecord, error) {
	if pageSize <= 0 {
		pageSize = 50
	}

	var all []domain.TransferRecord
	offset := 0
	for {
		page, err := c.Transfers(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("AllTransfers: %w", err)
		}
		all = append(all, page.Transfers...)
		offset += len(page.Transfers)
		if len(page.Transfers) == 0 || offset >= page.Pagination.Total {
			return all, nil
		}
	}
}

// TransferRequest is the outgoing remittance order.
type TransferRequest struct {
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	TargetCurrency  domain.Currency `json:"target_currency"`
	RecipientName   string          `json:"recipient_name"`
	RecipientIBAN   string          `json:"recipient_iban,omitempty"`
	Reference       string          `json:"reference,omitempty"`
}

func (c *Client) ExecuteTransfer(ctx context.Context, req TransferRequest) (*domain.TransferRecord, error) {
	var payload transferPayload
	if err := c.post(ctx, "/v1/transfers", req, &payload); err != nil {
		return nil, fmt.Errorf("ExecuteTransfer: %w", err)
	}
	transfer := payload.toDomain()
	return &transfer, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	log := logging.FromContext(req.Context())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	log.Debug("backend response",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", domain.ErrNetwork, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrNetwork, err)
	}
	return nil
}
