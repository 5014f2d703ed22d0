package enums

import "fmt"

// LedgerReferenceKind is the closed set of entities a point transaction can
// be caused by. Entries without a cause use LedgerReferenceKindNone.
type LedgerReferenceKind string

const (
	LedgerReferenceKindJobListing    LedgerReferenceKind = "job_listing"
	LedgerReferenceKindJobInvitation LedgerReferenceKind = "job_invitation"
	LedgerReferenceKindPointPackage  LedgerReferenceKind = "point_package"
	// LedgerReferenceKindLedgerEntry tags an offsetting entry back to the
	// promotional credit it expires.
	LedgerReferenceKindLedgerEntry LedgerReferenceKind = "ledger_entry"
	LedgerReferenceKindNone        LedgerReferenceKind = "none"
)

var validLedgerReferenceKinds = []LedgerReferenceKind{
	LedgerReferenceKindJobListing,
	LedgerReferenceKindJobInvitation,
	LedgerReferenceKindPointPackage,
	LedgerReferenceKindLedgerEntry,
	LedgerReferenceKindNone,
}

// String implements fmt.Stringer.
func (k LedgerReferenceKind) String() string {
	return string(k)
}

// IsValid reports whether the value is part of the closed reference set.
func (k LedgerReferenceKind) IsValid() bool {
	for _, candidate := range validLedgerReferenceKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLedgerReferenceKind converts raw input into a LedgerReferenceKind.
func ParseLedgerReferenceKind(value string) (LedgerReferenceKind, error) {
	for _, candidate := range validLedgerReferenceKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger reference kind %q", value)
}
