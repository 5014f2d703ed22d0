package enums

import "fmt"

// JobListingStatus tracks a listing through its publish lifecycle.
type JobListingStatus string

const (
	JobListingStatusDraft     JobListingStatus = "draft"
	JobListingStatusPublished JobListingStatus = "published"
	JobListingStatusClosed    JobListingStatus = "closed"
)

var validJobListingStatuses = []JobListingStatus{
	JobListingStatusDraft,
	JobListingStatusPublished,
	JobListingStatusClosed,
}

// String implements fmt.Stringer.
func (s JobListingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s JobListingStatus) IsValid() bool {
	for _, candidate := range validJobListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseJobListingStatus converts raw input into a JobListingStatus.
func ParseJobListingStatus(value string) (JobListingStatus, error) {
	for _, candidate := range validJobListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job listing status %q", value)
}
