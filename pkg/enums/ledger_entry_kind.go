package enums

import "fmt"

// LedgerEntryKind maps to the ledger_entry_kind_enum enum in Postgres.
type LedgerEntryKind string

const (
	LedgerEntryKindPurchase LedgerEntryKind = "purchase"
	LedgerEntryKindUsage    LedgerEntryKind = "usage"
	LedgerEntryKindRefund   LedgerEntryKind = "refund"
	LedgerEntryKindBonus    LedgerEntryKind = "bonus"
)

var validLedgerEntryKinds = []LedgerEntryKind{
	LedgerEntryKindPurchase,
	LedgerEntryKindUsage,
	LedgerEntryKindRefund,
	LedgerEntryKindBonus,
}

// String implements fmt.Stringer.
func (k LedgerEntryKind) String() string {
	return string(k)
}

// IsValid reports whether the value matches the canonical ledger entry kinds.
func (k LedgerEntryKind) IsValid() bool {
	for _, candidate := range validLedgerEntryKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// IsCredit reports whether entries of this kind increase the balance.
func (k LedgerEntryKind) IsCredit() bool {
	return k == LedgerEntryKindPurchase || k == LedgerEntryKindBonus || k == LedgerEntryKindRefund
}

// ParseLedgerEntryKind converts raw input into a LedgerEntryKind.
func ParseLedgerEntryKind(value string) (LedgerEntryKind, error) {
	for _, candidate := range validLedgerEntryKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger entry kind %q", value)
}
