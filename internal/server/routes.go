package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/keepsakehq/keepsake/internal/card"
	"github.com/keepsakehq/keepsake/internal/journal"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.journal.Status()

	resp := map[string]any{
		"state": string(st.Kind),
	}
	if st.Remaining > 0 {
		resp["remaining_seconds"] = int64(st.Remaining / time.Second)
		resp["countdown"] = journal.FormatCountdown(st.Remaining)
	}
	if st.Credits > 0 {
		resp["credits"] = st.Credits
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	sum := s.journal.Streak()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{
		"active":   sum.Active,
		"best":     sum.Best,
		"last_run": sum.LastRun,
	})
}

func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	type moodJSON struct {
		Key   string `json:"key"`
		Glyph string `json:"glyph"`
	}
	out := make([]moodJSON, len(journal.Moods))
	for i, m := range journal.Moods {
		out[i] = moodJSON{m.Key, m.Glyph}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"moods": out})
}

func (s *Server) handleSaveMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date       string `json:"date"`
		Mood       string `json:"mood"`
		Reflection string `json:"reflection"`
		Category   string `json:"category"`
		Photo      string `json:"photo_base64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	photo, err := base64.StdEncoding.DecodeString(req.Photo)
	if err != nil {
		http.Error(w, `{"error":"photo_base64 is not valid base64"}`, http.StatusBadRequest)
		return
	}

	entry, err := s.journal.Save(journal.SaveRequest{
		DayKey:     req.Date,
		Mood:       req.Mood,
		Reflection: req.Reflection,
		Category:   req.Category,
		Photo:      photo,
	})
	if err != nil {
		writeSaveError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"day_key":     entry.DayKey,
		"pretty_date": journal.PrettyDayKey(entry.DayKey),
		"mood":        entry.Mood,
		"mood_glyph":  entry.MoodGlyph,
	})
}

// writeSaveError maps the save error taxonomy onto HTTP statuses: bad input
// is 400, a duplicate day is 409, gate denials are 429 with the remaining
// wait, and anything else is a 500 the client may retry.
func writeSaveError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var v *journal.ValidationError
	if errors.As(err, &v) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": v.Error(),
			"kind":  "validation",
			"field": v.Field,
		})
		return
	}

	var d *journal.DenialError
	if errors.As(err, &d) {
		resp := map[string]any{
			"error": d.Error(),
			"kind":  string(d.Reason),
		}
		status := http.StatusTooManyRequests
		if d.Reason == journal.DenyDuplicateDate {
			status = http.StatusConflict
		}
		if d.Remaining > 0 {
			resp["remaining_seconds"] = int64(d.Remaining / time.Second)
			resp["countdown"] = journal.FormatCountdown(d.Remaining)
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
		return
	}

	log.Printf("save failed: %v", err)
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "storage failure, try again",
		"kind":  "storage",
	})
}

type entryJSON struct {
	DayKey     string `json:"day_key"`
	PrettyDate string `json:"pretty_date"`
	Month      string `json:"month"`
	Mood       string `json:"mood"`
	MoodGlyph  string `json:"mood_glyph"`
	Reflection string `json:"reflection"`
	Category   string `json:"category,omitempty"`
	MomentAt   int64  `json:"moment_at"`
	CreatedAt  int64  `json:"created_at"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := s.journal.Timeline()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{
			DayKey:     e.DayKey,
			PrettyDate: journal.PrettyDayKey(e.DayKey),
			Month:      journal.MonthLabel(e.DayKey),
			Mood:       e.Mood,
			MoodGlyph:  e.MoodGlyph,
			Reflection: e.Reflection,
			Category:   e.Category,
			MomentAt:   e.MomentAt,
			CreatedAt:  e.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(out),
		"entries": out,
	})
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "dayKey")

	e, err := s.journal.Entry(dayKey)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, `{"error":"no memory for that day"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entryJSON{
		DayKey:     e.DayKey,
		PrettyDate: journal.PrettyDayKey(e.DayKey),
		Month:      journal.MonthLabel(e.DayKey),
		Mood:       e.Mood,
		MoodGlyph:  e.MoodGlyph,
		Reflection: e.Reflection,
		Category:   e.Category,
		MomentAt:   e.MomentAt,
		CreatedAt:  e.CreatedAt,
	})
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "dayKey")

	photo, err := s.journal.Photo(dayKey)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if photo == nil {
		http.Error(w, `{"error":"no memory for that day"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(photo))
	w.Write(photo)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "dayKey")

	e, err := s.journal.Entry(dayKey)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, `{"error":"no memory for that day"}`, http.StatusNotFound)
		return
	}

	photo, err := s.journal.Photo(dayKey)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	img, err := card.Render(e, photo)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := card.EncodePNG(&buf, img); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+card.Filename(dayKey)+`"`)
	w.Write(buf.Bytes())
}
