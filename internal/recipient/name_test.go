package recipient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/domain"
)

func TestResolveNamePriorityChain(t *testing.T) {
	tests := []struct {
		name     string
		transfer domain.TransferRecord
		want     string
	}{
		{
			name: "structured recipient wins",
			transfer: domain.TransferRecord{
				Recipient: &domain.TransferRecipient{Name: "Ana Reyes"},
				Metadata: `{"recipientName":"Someone Else"}`,
				Reference: "Transfer to Nobody",
			},
			want: "Ana Reyes",
		},
		{
			name: "metadata blob when no structured recipient",
			transfer: domain.TransferRecord{
				Metadata: `{"recipientName":"Carla Flores","isInternalUser":true}`,
				Reference: "Transfer to Nobody",
			},
			want: "Carla Flores",
		},
		{
			name: "reference pattern when metadata unparseable",
			transfer: domain.TransferRecord{
				Metadata: `{not json`,
				Reference: "Transfer to Luis Mejia",
			},
			want: "Luis Mejia",
		},
		{
			name:     "trailing to pattern",
			transfer: domain.TransferRecord{Reference: "Monthly remittance to Maria"},
			want:     "Maria",
		},
		{
			name:     "pattern is case-insensitive",
			transfer: domain.TransferRecord{Reference: "TRANSFER TO PEDRO"},
			want:     "PEDRO",
		},
		{
			name:     "separator ends the captured name",
			transfer: domain.TransferRecord{Reference: "Transfer to Ana Reyes; rent"},
			want:     "Ana Reyes",
		},
		{
			name:     "no signal resolves nothing",
			transfer: domain.TransferRecord{Reference: "standing order 4411"},
			want:     "",
		},
		{
			name:     "empty transfer resolves nothing",
			transfer: domain.TransferRecord{},
			want:     "",
		},
		{
			name: "whitespace-only structured name falls through",
			transfer: domain.TransferRecord{
				Recipient: &domain.TransferRecipient{Name: "   "},
				Reference: "Transfer to Sofia",
			},
			want: "Sofia",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolveName(&tc.transfer))
		})
	}
}

func TestDedupKeyPriority(t *testing.T) {
	tests := []struct {
		name     string
		transfer domain.TransferRecord
		resolved string
		want     string
	}{
		{
			name: "iban first",
			transfer: domain.TransferRecord{
				Recipient: &domain.TransferRecipient{Name: "Ana", IBAN: "HN54PISA00000001", AccountNumber: "12345"},
			},
			resolved: "Ana",
			want:     "HN54PISA00000001",
		},
		{
			name: "account number when no iban",
			transfer: domain.TransferRecord{
				Recipient: &domain.TransferRecipient{Name: "Ana", AccountNumber: "12345"},
			},
			resolved: "Ana",
			want:     "12345",
		},
		{
			name: "metadata iban when structured has neither",
			transfer: domain.TransferRecord{
				Metadata: `{"recipientName":"Ana","recipientIban":"HN21BAME00000007"}`,
			},
			resolved: "Ana",
			want:     "HN21BAME00000007",
		},
		{
			name:     "name as last resort",
			transfer: domain.TransferRecord{Reference: "Transfer to Ana"},
			resolved: "Ana",
			want:     "Ana",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dedupKey(&tc.transfer, tc.resolved))
		})
	}
}
