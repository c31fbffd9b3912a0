package journal

import (
	"time"
)

// admission describes how an admitted save should be accounted for.
type admission struct {
	backfill   bool // consumes a backfill credit, never touches cooldown/streak
	freeCredit bool // consumes one cooldown-bypass credit
}

// cooldownActive reports whether the window since the last qualifying save
// has not yet elapsed.
func cooldownActive(st *State, p Policy, now time.Time) bool {
	if st.LastSaveAt.IsZero() {
		return false
	}
	return now.Sub(st.LastSaveAt) < p.CooldownWindow
}

// cooldownRemaining returns how long until the gate reopens. Zero when the
// cooldown is not active.
func cooldownRemaining(st *State, p Policy, now time.Time) time.Duration {
	if !cooldownActive(st, p, now) {
		return 0
	}
	return p.CooldownWindow - now.Sub(st.LastSaveAt)
}

// decide answers whether a new entry may be created for dayKey at instant
// now. The duplicate-date check is not here: the entry store's insert is
// the enforcement point for one-per-day, and the orchestrator checks it
// first. dayKey and today are valid day keys.
func decide(st *State, p Policy, dayKey, today string, now time.Time) (admission, *DenialError) {
	// Past dates are backfill: exempt from the cooldown, capped by their
	// own credit pool. Backfill never restarts or advances the cooldown.
	if dayKey < today {
		if st.BackfillUsed >= p.BackfillLimit {
			return admission{}, &DenialError{Reason: DenyBackfillExhausted}
		}
		return admission{backfill: true}, nil
	}

	// Today (or any non-past date the caller offers) runs the cooldown.
	if cooldownActive(st, p, now) {
		if st.FreeCredits > 0 {
			return admission{freeCredit: true}, nil
		}
		return admission{}, &DenialError{
			Reason:    DenyCooldownActive,
			Remaining: cooldownRemaining(st, p, now),
		}
	}
	return admission{}, nil
}

// StatusKind labels the gate's user-visible state.
type StatusKind string

const (
	// StatusOpen: a save for today is admitted right now.
	StatusOpen StatusKind = "open"
	// StatusCooldown: waiting out the window, no credits to spend.
	StatusCooldown StatusKind = "cooldown"
	// StatusCredits: cooldown active but free credits can bypass it.
	StatusCredits StatusKind = "credits"
	// StatusBackfill: cooldown active, no free credits, but past days can
	// still be recorded.
	StatusBackfill StatusKind = "backfill"
)

// Status is the gate projection for display.
type Status struct {
	Kind      StatusKind
	Remaining time.Duration // cooldown remaining; zero when open
	Credits   int64         // free credits (StatusCredits) or backfill credits left (StatusBackfill)
}

// Project computes the display status from state and time alone. It is
// pure: safe to call on any cadence, including once per second from a UI
// timer, without touching storage.
func Project(st *State, p Policy, now time.Time) Status {
	if !cooldownActive(st, p, now) {
		return Status{Kind: StatusOpen}
	}

	remaining := cooldownRemaining(st, p, now)
	if st.FreeCredits > 0 {
		return Status{Kind: StatusCredits, Remaining: remaining, Credits: st.FreeCredits}
	}
	if left := p.BackfillLimit - st.BackfillUsed; left > 0 {
		return Status{Kind: StatusBackfill, Remaining: remaining, Credits: left}
	}
	return Status{Kind: StatusCooldown, Remaining: remaining}
}
