package journal

import (
	"fmt"
	"time"
)

// DenyReason classifies why the gate refused a save attempt.
type DenyReason string

const (
	// DenyDuplicateDate: an entry already exists for the target day.
	DenyDuplicateDate DenyReason = "duplicate_date"
	// DenyCooldownActive: the 24h window since the last qualifying save has
	// not elapsed and no free credit is available.
	DenyCooldownActive DenyReason = "cooldown_active"
	// DenyBackfillExhausted: the backfill credit pool is spent.
	DenyBackfillExhausted DenyReason = "backfill_exhausted"
)

// DenialError is a gate refusal. Denials are recoverable: the caller waits
// out the cooldown, picks another date, or gives up on backfilling.
type DenialError struct {
	Reason    DenyReason
	Remaining time.Duration // cooldown remaining, set for DenyCooldownActive
}

func (e *DenialError) Error() string {
	switch e.Reason {
	case DenyDuplicateDate:
		return "a memory already exists for that day"
	case DenyCooldownActive:
		return fmt.Sprintf("cooldown active, next save in %s", FormatCountdown(e.Remaining))
	case DenyBackfillExhausted:
		return "no backfill credits remaining"
	}
	return string(e.Reason)
}

// ValidationError reports bad save input. The user corrects and retries;
// nothing was touched.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}
