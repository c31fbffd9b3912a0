package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/keepsakehq/keepsake/internal/journal"
	"github.com/keepsakehq/keepsake/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	j, err := journal.Open(db, journal.DefaultPolicy(), "test")
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	return New(db, j, "test")
}

func saveBody(date string) string {
	photo := base64.StdEncoding.EncodeToString([]byte("fake photo bytes"))
	body := map[string]string{
		"mood":         "Joyful",
		"reflection":   "a good day",
		"photo_base64": photo,
	}
	if date != "" {
		body["date"] = date
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["db"] != true {
		t.Errorf("db = %v, want true", resp["db"])
	}
}

func TestMoods(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "GET", "/api/moods", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Moods []struct {
			Key   string `json:"key"`
			Glyph string `json:"glyph"`
		} `json:"moods"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Moods) != 8 {
		t.Fatalf("moods = %d, want 8", len(resp.Moods))
	}
	if resp.Moods[0].Key != "Loved" || resp.Moods[0].Glyph == "" {
		t.Errorf("first mood = %+v", resp.Moods[0])
	}
}

func TestSaveAndFetchMemory(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "POST", "/api/memories", saveBody(""))
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body: %s", w.Code, w.Body.String())
	}

	var saved map[string]any
	json.Unmarshal(w.Body.Bytes(), &saved)
	dayKey, _ := saved["day_key"].(string)
	if dayKey == "" {
		t.Fatalf("no day_key in response: %s", w.Body.String())
	}

	// Fetch it back
	w = doRequest(t, srv, "GET", "/api/memories/"+dayKey, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var entry map[string]any
	json.Unmarshal(w.Body.Bytes(), &entry)
	if entry["reflection"] != "a good day" {
		t.Errorf("reflection = %v", entry["reflection"])
	}
	if entry["mood_glyph"] == "" {
		t.Error("missing mood glyph")
	}

	// Photo round-trips
	w = doRequest(t, srv, "GET", "/api/memories/"+dayKey+"/photo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("photo status = %d", w.Code)
	}
	if w.Body.String() != "fake photo bytes" {
		t.Errorf("photo = %q", w.Body.String())
	}

	// Timeline includes it
	w = doRequest(t, srv, "GET", "/api/memories", "")
	var timeline struct {
		Count   int `json:"count"`
		Entries []struct {
			DayKey string `json:"day_key"`
			Month  string `json:"month"`
		} `json:"entries"`
	}
	json.Unmarshal(w.Body.Bytes(), &timeline)
	if timeline.Count != 1 || timeline.Entries[0].DayKey != dayKey {
		t.Errorf("timeline = %+v", timeline)
	}
	if timeline.Entries[0].Month == "" {
		t.Error("missing month label")
	}
}

func TestSaveDuplicateDay(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "POST", "/api/memories", saveBody(""))
	if w.Code != http.StatusCreated {
		t.Fatalf("first save = %d", w.Code)
	}

	today := journal.DayKeyOf(time.Now())
	w = doRequest(t, srv, "POST", "/api/memories", saveBody(today))
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate save = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["kind"] != "duplicate_date" {
		t.Errorf("kind = %v", resp["kind"])
	}
}

func TestSaveValidationError(t *testing.T) {
	srv := testServer(t)

	body := `{"mood":"Hangry","reflection":"x","photo_base64":"YWJj"}`
	w := doRequest(t, srv, "POST", "/api/memories", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["kind"] != "validation" || resp["field"] != "mood" {
		t.Errorf("resp = %v", resp)
	}
}

func TestBackfillThenExhausted(t *testing.T) {
	srv := testServer(t)

	// Three backfills succeed (default limit).
	for i := 1; i <= 3; i++ {
		day := journal.DayKeyOf(time.Now().AddDate(0, 0, -i))
		w := doRequest(t, srv, "POST", "/api/memories", saveBody(day))
		if w.Code != http.StatusCreated {
			t.Fatalf("backfill %d = %d, body: %s", i, w.Code, w.Body.String())
		}
	}

	day := journal.DayKeyOf(time.Now().AddDate(0, 0, -4))
	w := doRequest(t, srv, "POST", "/api/memories", saveBody(day))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("exhausted backfill = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["kind"] != "backfill_exhausted" {
		t.Errorf("kind = %v", resp["kind"])
	}
}

func TestStatusReflectsCooldown(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "GET", "/api/status", "")
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["state"] != "open" {
		t.Fatalf("initial state = %v, want open", resp["state"])
	}

	doRequest(t, srv, "POST", "/api/memories", saveBody(""))

	w = doRequest(t, srv, "GET", "/api/status", "")
	resp = map[string]any{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	// Cooldown active; backfill credits are still available to spend.
	if resp["state"] != "backfill" {
		t.Errorf("state after save = %v, want backfill", resp["state"])
	}
	if resp["countdown"] == nil {
		t.Error("missing countdown")
	}
}

func TestStreakEndpoint(t *testing.T) {
	srv := testServer(t)

	doRequest(t, srv, "POST", "/api/memories", saveBody(""))

	w := doRequest(t, srv, "GET", "/api/streak", "")
	var resp map[string]int64
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["active"] != 1 {
		t.Errorf("active = %d, want 1", resp["active"])
	}
	if resp["best"] != 1 {
		t.Errorf("best = %d, want 1", resp["best"])
	}
}

func TestGetCard(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "POST", "/api/memories", saveBody(""))
	if w.Code != http.StatusCreated {
		t.Fatalf("save = %d", w.Code)
	}
	var saved map[string]any
	json.Unmarshal(w.Body.Bytes(), &saved)
	dayKey := saved["day_key"].(string)

	w = doRequest(t, srv, "GET", fmt.Sprintf("/api/memories/%s/card", dayKey), "")
	if w.Code != http.StatusOK {
		t.Fatalf("card status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	// PNG magic bytes
	if !strings.HasPrefix(w.Body.String(), "\x89PNG") {
		t.Error("card response is not a PNG")
	}
}

func TestGetMissingMemory(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{
		"/api/memories/2024-01-05",
		"/api/memories/2024-01-05/photo",
		"/api/memories/2024-01-05/card",
	} {
		w := doRequest(t, srv, "GET", path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
}
