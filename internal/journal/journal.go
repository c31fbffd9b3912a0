package journal

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/keepsakehq/keepsake/internal/store"
)

// Journal is the save orchestrator: the only component with write
// authority over entries and counters. It owns the loaded State and writes
// it through to the meta store on every mutating transition.
type Journal struct {
	db     *store.DB
	policy Policy

	mu    sync.Mutex
	state *State

	// now is replaceable in tests.
	now func() time.Time
}

// Open loads the journal state and applies the version-marker credit policy.
func Open(db *store.DB, policy Policy, version string) (*Journal, error) {
	j := &Journal{
		db:     db,
		policy: policy,
		now:    time.Now,
	}

	st, err := LoadState(db, j.now())
	if err != nil {
		return nil, err
	}
	j.state = st

	if err := j.applyVersionMarker(version); err != nil {
		return nil, err
	}
	return j, nil
}

// applyVersionMarker grants the free-credit pool once per version bump.
// The marker is what distinguishes "upgrade" from "every start".
func (j *Journal) applyVersionMarker(version string) error {
	stored, ok, err := j.db.GetMeta(store.MetaAppVersion)
	if err != nil {
		return fmt.Errorf("version marker: %w", err)
	}
	if ok && stored == version {
		return nil
	}

	if j.policy.FreeCreditGrant > 0 {
		j.state.FreeCredits = j.policy.FreeCreditGrant
		if err := j.db.SetMetaInt(store.MetaFreeCredits, j.state.FreeCredits); err != nil {
			return fmt.Errorf("version marker: %w", err)
		}
	}
	if err := j.db.SetMeta(store.MetaAppVersion, version); err != nil {
		return fmt.Errorf("version marker: %w", err)
	}
	return nil
}

// SaveRequest is one save attempt.
type SaveRequest struct {
	DayKey     string // target date; empty means today
	Mood       string
	Reflection string
	Category   string
	Photo      []byte
	Moment     time.Time // capture instant; zero means now
}

// Save runs one gated save attempt: validate, admit, persist, account.
// Terminal outcomes are a persisted entry, a *ValidationError, a
// *DenialError, or a wrapped storage error. Counters advance only after
// the entry durably exists; a failed insert is a no-op.
func (j *Journal) Save(req SaveRequest) (*store.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	today := DayKeyOf(now)

	dayKey := req.DayKey
	if dayKey == "" {
		dayKey = today
	}
	if _, err := ParseDayKey(dayKey); err != nil {
		return nil, invalid("date", "must be a real date in YYYY-MM-DD form")
	}

	glyph, ok := MoodGlyph(req.Mood)
	if !ok {
		return nil, invalid("mood", fmt.Sprintf("unknown mood %q", req.Mood))
	}
	reflection := strings.TrimSpace(req.Reflection)
	if reflection == "" {
		return nil, invalid("reflection", "must not be empty")
	}
	if len(req.Photo) == 0 {
		return nil, invalid("photo", "must not be empty")
	}

	// One-per-day check up front for a clean denial; the insert's primary
	// key remains the real enforcement point.
	existing, err := j.db.GetEntry(dayKey)
	if err != nil {
		return nil, fmt.Errorf("check existing entry: %w", err)
	}
	if existing != nil {
		return nil, &DenialError{Reason: DenyDuplicateDate}
	}

	adm, denial := decide(j.state, j.policy, dayKey, today, now)
	if denial != nil {
		return nil, denial
	}

	moment := req.Moment
	if moment.IsZero() {
		moment = now
	}

	entry := &store.Entry{
		DayKey:     dayKey,
		MomentAt:   moment.UnixMilli(),
		Mood:       req.Mood,
		MoodGlyph:  glyph,
		Reflection: reflection,
		Category:   strings.TrimSpace(req.Category),
		CreatedAt:  now.UnixMilli(),
	}

	if err := j.db.InsertEntry(entry, req.Photo); err != nil {
		if errors.Is(err, store.ErrDuplicateDay) {
			return nil, &DenialError{Reason: DenyDuplicateDate}
		}
		// Storage failure: no counter moves, the attempt is a no-op from
		// the gating and streak perspective.
		return nil, fmt.Errorf("persist entry: %w", err)
	}

	if adm.backfill {
		j.state.BackfillUsed++
		j.persistInt(store.MetaBackfillUsed, j.state.BackfillUsed)
		return entry, nil
	}

	// Qualifying save: advance the cooldown, spend any credit, and update
	// the streak when the entry lands on today.
	if adm.freeCredit {
		j.state.FreeCredits--
		j.persistInt(store.MetaFreeCredits, j.state.FreeCredits)
	}
	j.state.LastSaveAt = now
	j.persistInt(store.MetaLastSaveAt, now.UnixMilli())

	if dayKey == today {
		j.state.applyQualifying(today)
		j.state.StreakLastAt = now
		j.persistInt(store.MetaStreakCount, j.state.StreakCount)
		j.persistInt(store.MetaBestStreak, j.state.BestStreak)
		j.persistInt(store.MetaLastRunStreak, j.state.LastRunStreak)
		j.persistInt(store.MetaStreakLastAt, now.UnixMilli())
		j.persist(store.MetaStreakLastDay, j.state.StreakLastDay)
	}

	return entry, nil
}

// persist writes through a single meta key. The entry is already durable
// at this point, so a failed counter write is logged rather than unwound;
// the self-heal load path tolerates the gap on next start.
func (j *Journal) persist(key, value string) {
	if err := j.db.SetMeta(key, value); err != nil {
		log.Printf("journal: write-through %s: %v", key, err)
	}
}

func (j *Journal) persistInt(key string, n int64) {
	if err := j.db.SetMetaInt(key, n); err != nil {
		log.Printf("journal: write-through %s: %v", key, err)
	}
}

// Status returns the gate projection at this instant.
func (j *Journal) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Project(j.state, j.policy, j.now())
}

// StreakSummary is the user-facing streak triple.
type StreakSummary struct {
	Active  int64
	Best    int64
	LastRun int64
}

// Streak returns the streak summary. The active value is zero unless the
// last qualifying day is today or yesterday.
func (j *Journal) Streak() StreakSummary {
	j.mu.Lock()
	defer j.mu.Unlock()

	today := DayKeyOf(j.now())
	active := int64(0)
	if j.state.StreakLastDay == today || j.state.StreakLastDay == PrevDayKey(today) {
		active = j.state.StreakCount
	}
	return StreakSummary{
		Active:  active,
		Best:    j.state.BestStreak,
		LastRun: j.state.LastRunStreak,
	}
}

// Timeline returns all entries, newest first, without photo blobs.
func (j *Journal) Timeline() ([]store.Entry, error) {
	return j.db.ListEntries()
}

// Entry returns the entry for a day, or nil if none exists.
func (j *Journal) Entry(dayKey string) (*store.Entry, error) {
	return j.db.GetEntry(dayKey)
}

// Photo returns the photo blob for a day, or nil if none exists.
func (j *Journal) Photo(dayKey string) ([]byte, error) {
	return j.db.GetPhoto(dayKey)
}

// Policy returns the active policy knobs.
func (j *Journal) Policy() Policy {
	return j.policy
}
