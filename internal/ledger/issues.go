package ledger

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/model"
)

// IssueKind classifies a data-quality problem found while posting.
type IssueKind string

const (
	// MissingExchangeRate: no rate converts the event into the base currency.
	// The event is left out of the ledger.
	MissingExchangeRate IssueKind = "missing_exchange_rate"
	// MalformedDate: the stored date does not parse. The event is left out
	// of the ledger.
	MalformedDate IssueKind = "malformed_date"
	// UnclassifiableEvent: no rule matched. The event is posted to the
	// unclassified bucket.
	UnclassifiableEvent IssueKind = "unclassifiable_event"
	// CancelledEvent: the record is cancelled and skipped.
	CancelledEvent IssueKind = "cancelled_event"
	// RejectedRate: an exchange-rate record could not be used.
	RejectedRate IssueKind = "rejected_rate"
)

// Excludes reports whether events with this issue are left out of postings.
func (k IssueKind) Excludes() bool {
	return k == MissingExchangeRate || k == MalformedDate || k == CancelledEvent
}

// Issue is one collected data-quality problem.
type Issue struct {
	Kind      IssueKind       `json:"kind"`
	EventKind model.EventKind `json:"eventKind,omitempty"`
	Ref       string          `json:"ref"`
	Detail    string          `json:"detail"`
}

func (i Issue) String() string {
	if i.EventKind == "" {
		return fmt.Sprintf("%s [%s]: %s", i.Kind, i.Ref, i.Detail)
	}
	return fmt.Sprintf("%s [%s %s]: %s", i.Kind, i.EventKind, i.Ref, i.Detail)
}

// Issues is the ordered list of problems from one pass.
type Issues []Issue

// Count returns how many issues have kind.
func (is Issues) Count(kind IssueKind) int {
	n := 0
	for _, i := range is {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// Refs returns the source references of issues with kind.
func (is Issues) Refs(kind IssueKind) []string {
	var refs []string
	for _, i := range is {
		if i.Kind == kind {
			refs = append(refs, i.Ref)
		}
	}
	return refs
}

// Excluded returns how many events were left out of the ledger.
func (is Issues) Excluded() int {
	n := 0
	for _, i := range is {
		if i.Kind.Excludes() {
			n++
		}
	}
	return n
}
