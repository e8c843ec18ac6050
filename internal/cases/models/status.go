package models

import (
	"fmt"

	dErrors "caseflow/pkg/domain-errors"
)

// CaseStatus is the fixed enumeration of lifecycle statuses.
type CaseStatus string

const (
	StatusApplication          CaseStatus = "APPLICATION"
	StatusDirections           CaseStatus = "DIRECTIONS"
	StatusConsentAndReporting  CaseStatus = "CONSENT_AND_REPORTING"
	StatusFinalHearing         CaseStatus = "FINAL_HEARING"
	StatusOnHold               CaseStatus = "ON_HOLD"
	StatusAdjourned            CaseStatus = "ADJOURNED"
	StatusOrderGranted         CaseStatus = "ORDER_GRANTED"
	StatusApplicationRefused   CaseStatus = "APPLICATION_REFUSED"
	StatusApplicationWithdrawn CaseStatus = "APPLICATION_WITHDRAWN"
)

// AllStatuses lists every status, in lifecycle order. Exported for exhaustive
// table-driven tests.
var AllStatuses = []CaseStatus{
	StatusApplication,
	StatusDirections,
	StatusConsentAndReporting,
	StatusFinalHearing,
	StatusOnHold,
	StatusAdjourned,
	StatusOrderGranted,
	StatusApplicationRefused,
	StatusApplicationWithdrawn,
}

// transitions is the directional allow-list per status. A status absent from
// a list is not reachable from that status; terminal statuses have an empty
// list. There are deliberately no self-loops.
var transitions = map[CaseStatus][]CaseStatus{
	StatusApplication: {
		StatusDirections,
		StatusOnHold,
		StatusApplicationWithdrawn,
	},
	StatusDirections: {
		StatusConsentAndReporting,
		StatusOnHold,
		StatusAdjourned,
		StatusApplicationWithdrawn,
	},
	StatusConsentAndReporting: {
		StatusFinalHearing,
		StatusOnHold,
		StatusAdjourned,
		StatusApplicationWithdrawn,
	},
	StatusFinalHearing: {
		StatusOrderGranted,
		StatusApplicationRefused,
		StatusOnHold,
		StatusAdjourned,
		StatusApplicationWithdrawn,
	},
	// A held or adjourned case can resume at any of the four active stages,
	// or be withdrawn.
	StatusOnHold: {
		StatusApplication,
		StatusDirections,
		StatusConsentAndReporting,
		StatusFinalHearing,
		StatusApplicationWithdrawn,
	},
	StatusAdjourned: {
		StatusApplication,
		StatusDirections,
		StatusConsentAndReporting,
		StatusFinalHearing,
		StatusApplicationWithdrawn,
	},
	// Terminal: legal finality, no way back.
	StatusOrderGranted:         {},
	StatusApplicationRefused:   {},
	StatusApplicationWithdrawn: {},
}

// ParseCaseStatus validates a status string from an external source.
func ParseCaseStatus(raw string) (CaseStatus, error) {
	if _, ok := transitions[CaseStatus(raw)]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown case status %q", raw))
	}
	return CaseStatus(raw), nil
}

// IsValidTransition reports whether to is in from's allow-list. Deterministic
// and storage-free.
func IsValidTransition(from, to CaseStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has an empty allow-list. A terminal
// case is permanently closed to status changes.
func IsTerminal(status CaseStatus) bool {
	return len(transitions[status]) == 0
}

// RequiresReason reports whether transitions into this status must carry a
// non-empty human-readable reason. Enforced before any write is attempted.
func RequiresReason(status CaseStatus) bool {
	return status == StatusOnHold || status == StatusApplicationWithdrawn
}
