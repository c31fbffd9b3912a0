package journal

import (
	"fmt"
	"time"

	"github.com/keepsakehq/keepsake/internal/store"
)

// Policy holds the gate's tunable knobs. These are configuration, not
// mechanism: changing them never changes the algorithms.
type Policy struct {
	// CooldownWindow is the minimum interval between qualifying saves.
	CooldownWindow time.Duration
	// BackfillLimit caps how many past days may ever be recorded.
	BackfillLimit int64
	// FreeCreditGrant is the number of cooldown-bypass credits granted once
	// per app version bump. Zero disables the free-pass mechanism.
	FreeCreditGrant int64
}

// DefaultPolicy returns the shipped policy: 24h cooldown, 3 backfill
// credits, no free passes.
func DefaultPolicy() Policy {
	return Policy{
		CooldownWindow:  24 * time.Hour,
		BackfillLimit:   3,
		FreeCreditGrant: 0,
	}
}

// State is the gating and streak bookkeeping, loaded from the meta store at
// session start and written through on every mutating save. It is owned by
// the Journal; the gate and streak functions take it as a plain parameter.
type State struct {
	LastSaveAt    time.Time // zero when no qualifying save recorded
	FreeCredits   int64
	StreakCount   int64
	StreakLastAt  time.Time
	StreakLastDay string
	LastRunStreak int64
	BestStreak    int64
	BackfillUsed  int64

	// Healed is set when the streak counters were reconstructed from the
	// entry set instead of read from the meta store.
	Healed bool
}

// LoadState reads the meta counters, falling back to reconstruction from
// the entry set when they are missing. The fallback is read-only: it never
// repairs the meta store, it only prevents a false "no streak" state after
// a fresh install or a storage reset.
func LoadState(db *store.DB, now time.Time) (*State, error) {
	st := &State{}

	lastSave, haveLastSave, err := db.GetMetaInt(store.MetaLastSaveAt)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if haveLastSave {
		st.LastSaveAt = time.UnixMilli(lastSave)
	}

	st.FreeCredits, _, err = db.GetMetaInt(store.MetaFreeCredits)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	st.BackfillUsed, _, err = db.GetMetaInt(store.MetaBackfillUsed)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	st.LastRunStreak, _, err = db.GetMetaInt(store.MetaLastRunStreak)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	streakCount, haveStreak, err := db.GetMetaInt(store.MetaStreakCount)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if haveStreak {
		st.StreakCount = streakCount
		if at, ok, _ := db.GetMetaInt(store.MetaStreakLastAt); ok {
			st.StreakLastAt = time.UnixMilli(at)
		}
		st.StreakLastDay, _, _ = db.GetMeta(store.MetaStreakLastDay)
		st.BestStreak, _, _ = db.GetMetaInt(store.MetaBestStreak)
	} else {
		// Counters missing: derive a best-effort view from the entries
		// alone.
		days, err := db.ListDays()
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		if len(days) == 0 {
			return st, nil
		}
		st.Healed = true

		today := DayKeyOf(now)
		newest := days[0] // ListDays returns newest first
		st.StreakCount = int64(ActiveStreak(days, today))
		st.StreakLastDay = newest
		st.BestStreak = int64(Chain(days, newest))
		if st.StreakCount > st.BestStreak {
			st.BestStreak = st.StreakCount
		}
	}

	// The cooldown marker heals independently of the streak counters: a
	// missing last-save instant falls back to the newest entry's creation
	// time so the gate is never wide open just because bookkeeping is gone.
	if !haveLastSave {
		latest, err := db.LatestCreatedAt()
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		if latest > 0 {
			st.LastSaveAt = time.UnixMilli(latest)
			if st.StreakLastAt.IsZero() {
				st.StreakLastAt = st.LastSaveAt
			}
		}
	}

	return st, nil
}
