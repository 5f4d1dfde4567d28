package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid() []DayCell {
	return []DayCell{
		{Number: 1, Date: "2026-02-18", Unlocked: true},
		{Number: 2, Date: "2026-02-19", Unlocked: true},
		{Number: 3, Date: "2026-02-20", Unlocked: true},
		{Number: 4, Date: "2026-02-21", Unlocked: false},
	}
}

func TestFreeNoteDay(t *testing.T) {
	tests := []struct {
		name   string
		notes  []StoredNote
		want   string
		wantOK bool
	}{
		{"no notes picks latest unlocked", nil, "2026-02-20", true},
		{"today has a note", []StoredNote{{Date: "2026-02-20"}}, "2026-02-19", true},
		{"every unlocked day has a note", []StoredNote{{Date: "2026-02-18"}, {Date: "2026-02-19"}, {Date: "2026-02-20"}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := freeNoteDay(grid(), tt.notes)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.Date)
		})
	}
}

// noteServer serves /api/v1/notes from a map and records every write.
type noteServer struct {
	mu     sync.Mutex
	notes  map[string]string
	writes []string
}

func (s *noteServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet && r.URL.Path == "/api/v1/notes" {
		list := []StoredNote{}
		for date, note := range s.notes {
			list = append(list, StoredNote{Date: date, Note: note})
		}
		data, _ := json.Marshal(list)
		json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
		return
	}

	s.writes = append(s.writes, r.Method+" "+r.URL.Path)
	json.NewEncoder(w).Encode(APIResponse{Success: true, Data: json.RawMessage(`{}`)})
}

func TestTestNotes_LeavesExistingNotesAlone(t *testing.T) {
	srv := &noteServer{notes: map[string]string{"2026-02-20": "min egen refleksjon"}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	tr := NewTestRunner(ts.URL, "key", false)
	tr.testNotes(grid())

	require.Equal(t, 0, tr.errorCount, tr.errors)
	assert.Equal(t, []string{
		"PUT /api/v1/days/2026-02-19/note",
		"DELETE /api/v1/days/2026-02-19/note",
	}, srv.writes)
	assert.Equal(t, "min egen refleksjon", srv.notes["2026-02-20"])
}

func TestTestNotes_SkipsWhenEveryDayHasANote(t *testing.T) {
	srv := &noteServer{notes: map[string]string{
		"2026-02-18": "a",
		"2026-02-19": "b",
		"2026-02-20": "c",
	}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	tr := NewTestRunner(ts.URL, "key", false)
	tr.testNotes(grid())

	assert.Equal(t, 0, tr.errorCount)
	assert.Empty(t, srv.writes)
}

func TestDashboardSummary(t *testing.T) {
	d := DashboardResponse{Title: "Ramadan dag 3 av 29", Pill: "Du er på dag 3", Clock: "12:00:00", Sunset: "17:21"}
	assert.Equal(t, "Ramadan dag 3 av 29, Du er på dag 3 (klokken 12:00:00, solnedgang 17:21)", dashboardSummary(d))
}
