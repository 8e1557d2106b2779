// Package recipient reconstructs the "recent recipients" view from raw
// transfer history. Derivation is a pure function of its inputs: the same
// transfers, currency context, favorites, and filter always produce the same
// ordered list.
package recipient

import (
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
)

// Tab is the active filter tab on the send-money screen.
type Tab string

const (
	TabRecent        Tab = "recent"
	TabFavorites     Tab = "favorites"
	TabInternational Tab = "international"
)

// Filter is the user-driven part of a derivation: the active tab plus
// free-text search over name, target currency, and country. Both predicates
// compose independently of order.
type Filter struct {
	Tab    Tab
	Search string
}

// FavoriteChecker reports favorite membership by dedup key. Satisfied by
// *favorites.Registry.
type FavoriteChecker interface {
	IsFavorite(key string) bool
}

const defaultLimit = 5

// Engine derives recipient lists. now is injectable so relative-time labels
// are deterministic under test.
type Engine struct {
	limit int
	now   func() time.Time
}

func NewEngine(limit int) *Engine {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Engine{limit: limit, now: time.Now}
}

// WithNow fixes the clock used for "last used" labels.
func (e *Engine) WithNow(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Derive builds the recipient list for the active currency context.
//
// Only outgoing transfers contribute. Transfers sharing a dedup key collapse
// to the most recent one. After dedup and truncation, any summary whose
// originating transfer was not sourced in the active currency is dropped, so
// a recipient from one currency's history can never be acted on while a
// different currency account is selected.
func (e *Engine) Derive(transfers []domain.TransferRecord, active domain.Currency, favs FavoriteChecker, f Filter) []domain.RecipientSummary {
	byKey := make(map[string]domain.RecipientSummary)

	for i := range transfers {
		t := &transfers[i]
		if !t.Outgoing() {
			continue
		}

		name := resolveName(t)
		if name == "" {
			continue
		}
		key := dedupKey(t, name)

		if prev, ok := byKey[key]; ok && !t.CreatedAt.After(prev.LastUsedAt) {
			continue
		}

		country := t.TargetCurrency.Country()
		byKey[key] = domain.RecipientSummary{
			Key:             key,
			Name:            name,
			TargetCurrency:  t.TargetCurrency,
			SourceCurrency:  t.SourceCurrency,
			Country:         country,
			LastUsedAt:      t.CreatedAt,
			LastUsed:        humanize.RelTime(t.CreatedAt, e.now(), "ago", "from now"),
			LastAmount:      t.SourceAmount.Abs(),
			IsInternational: country != active.Country(),
			TransferID:      t.ID,
		}
	}

	list := make([]domain.RecipientSummary, 0, len(byKey))
	for _, s := range byKey {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].LastUsedAt.Equal(list[j].LastUsedAt) {
			return list[i].LastUsedAt.After(list[j].LastUsedAt)
		}
		return list[i].Key < list[j].Key
	})

	if len(list) > e.limit {
		list = list[:e.limit]
	}

	// Currency-context filter. Mandatory: summaries sourced from another
	// currency's history must not survive into the visible list.
	filtered := list[:0]
	for _, s := range list {
		if s.SourceCurrency == active {
			filtered = append(filtered, s)
		}
	}
	list = filtered

	for i := range list {
		if favs != nil {
			list[i].IsFavorite = favs.IsFavorite(list[i].Key)
		}
	}

	out := make([]domain.RecipientSummary, 0, len(list))
	for _, s := range list {
		if matchesTab(s, f.Tab) && matchesSearch(s, f.Search) {
			out = append(out, s)
		}
	}
	return out
}

func matchesTab(s domain.RecipientSummary, tab Tab) bool {
	switch tab {
	case TabFavorites:
		return s.IsFavorite
	case TabInternational:
		return s.IsInternational
	default:
		return true
	}
}

func matchesSearch(s domain.RecipientSummary, search string) bool {
	search = strings.TrimSpace(strings.ToLower(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), search) ||
		strings.Contains(strings.ToLower(string(s.TargetCurrency)), search) ||
		strings.Contains(strings.ToLower(s.Country), search)
}
