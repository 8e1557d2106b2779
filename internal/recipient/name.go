package recipient

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
)

// transferMeta is the best-effort shape of the free-form metadata blob some
// transfers carry. Unknown fields are ignored; a blob that fails to parse
// contributes nothing.
type transferMeta struct {
	RecipientName   string `json:"recipientName"`
	RecipientIBAN   string `json:"recipientIban"`
	RecipientUserID string `json:"recipientUserId"`
	IsInternalUser  bool   `json:"isInternalUser"`
}

var (
	reTransferTo = regexp.MustCompile(`(?i)transfer to\s+([^,;]+)`)
	reTrailingTo = regexp.MustCompile(`(?i)\bto\s+([^,;]+?)\s*$`)
)

// resolveName picks a recipient name for a transfer: the structured
// recipient first, then the metadata blob, then a pattern match over the
// free-text reference. An empty result means the transfer is skipped.
func resolveName(t *domain.TransferRecord) string {
	if t.Recipient != nil && strings.TrimSpace(t.Recipient.Name) != "" {
		return strings.TrimSpace(t.Recipient.Name)
	}

	if meta := parseMeta(t.Metadata); meta != nil && strings.TrimSpace(meta.RecipientName) != "" {
		return strings.TrimSpace(meta.RecipientName)
	}

	return extractNameFromText(t.Reference)
}

func parseMeta(blob string) *transferMeta {
	raw := []byte(blob)
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	var meta transferMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil
	}
	return &meta
}

// extractNameFromText is the heuristic fallback over reference/description
// text. The pattern set is deliberately small: "Transfer to X" and a
// trailing "... to X".
func extractNameFromText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if m := reTransferTo.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := reTrailingTo.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// dedupKey is the recipient identity: IBAN when known (structured field or
// metadata), else account number, else the resolved name.
func dedupKey(t *domain.TransferRecord, name string) string {
	if t.Recipient != nil {
		if t.Recipient.IBAN != "" {
			return t.Recipient.IBAN
		}
		if t.Recipient.AccountNumber != "" {
			return t.Recipient.AccountNumber
		}
	}
	if meta := parseMeta(t.Metadata); meta != nil && meta.RecipientIBAN != "" {
		return meta.RecipientIBAN
	}
	return name
}
