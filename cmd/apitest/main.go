// Command apitest runs a smoke test against a running Ramadan API server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
	Today  string `json:"today"`
	Phase  string `json:"phase"`
}

// DashboardResponse is the subset of /api/v1/today the smoke test checks.
type DashboardResponse struct {
	Title    string `json:"title"`
	Pill     string `json:"pill"`
	Clock    string `json:"clock"`
	Sunset   string `json:"sunset"`
	Progress struct {
		InPeriod      bool `json:"in_period"`
		CompletedDays int  `json:"completed_days"`
		RemainingDays int  `json:"remaining_days"`
	} `json:"progress"`
	Days []DayCell `json:"days"`
}

type DayCell struct {
	Number   int    `json:"day_number"`
	Date     string `json:"iso_date"`
	Unlocked bool   `json:"unlocked"`
	Hint     string `json:"hint"`
}

// StoredNote is the subset of a note returned by /api/v1/notes.
type StoredNote struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Ramadan API Smoke Test")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testToday()
	days := tr.testDays()
	tr.testDayLocks(days)
	tr.testEvents()
	tr.testCalendar()
	if tr.apiKey != "" {
		tr.testNotes(days)
	}

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if _, err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status != "healthy" {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Health check passed (today %s, %s)", health.Today, health.Phase))
}

func (tr *TestRunner) testToday() {
	tr.printSection("Dashboard")

	var live DashboardResponse
	if _, err := tr.getData("/api/v1/today", &live); err != nil {
		tr.recordError("Today", err.Error())
		return
	}
	if live.Progress.CompletedDays+live.Progress.RemainingDays != len(live.Days) && live.Progress.InPeriod {
		tr.recordError("Today", fmt.Sprintf("completed %d + remaining %d != %d days",
			live.Progress.CompletedDays, live.Progress.RemainingDays, len(live.Days)))
	} else {
		tr.recordSuccess(dashboardSummary(live))
	}

	cases := []struct {
		at        string
		wantTitle string
	}{
		{"2026-02-01T12:00:00%2B01:00", "Ramadan oversikt"},
		{"2026-02-18T12:00:00%2B01:00", "Ramadan dag 1 av 29"},
		{"2026-03-18T20:00:00%2B01:00", "Ramadan dag 29 av 29"},
	}
	for _, c := range cases {
		var snap DashboardResponse
		if _, err := tr.getData("/api/v1/today?at="+c.at, &snap); err != nil {
			tr.recordError("Today at "+c.at, err.Error())
			continue
		}
		if snap.Title != c.wantTitle {
			tr.recordError("Today at "+c.at, fmt.Sprintf("title %q, want %q", snap.Title, c.wantTitle))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("at %s: %s", c.at, snap.Title))
	}
}

func dashboardSummary(d DashboardResponse) string {
	return fmt.Sprintf("%s, %s (klokken %s, solnedgang %s)", d.Title, d.Pill, d.Clock, d.Sunset)
}

func (tr *TestRunner) testDays() []DayCell {
	tr.printSection("Day Grid")

	var days []DayCell
	if _, err := tr.getData("/api/v1/days", &days); err != nil {
		tr.recordError("Days", err.Error())
		return nil
	}
	if len(days) == 0 {
		tr.recordError("Days", "empty grid")
		return nil
	}

	tr.recordSuccess(fmt.Sprintf("%d days, %s to %s", len(days), days[0].Date, days[len(days)-1].Date))
	if tr.verbose {
		for _, d := range days {
			fmt.Printf("    Dag %2d %s %s\n", d.Number, d.Date, d.Hint)
		}
	}
	return days
}

func (tr *TestRunner) testDayLocks(days []DayCell) {
	tr.printSection("Day Details")

	for _, d := range days {
		status, err := tr.getData("/api/v1/days/"+d.Date, nil)
		switch {
		case d.Unlocked && err != nil:
			tr.recordError("Day "+d.Date, err.Error())
		case !d.Unlocked && status != http.StatusForbidden:
			tr.recordError("Day "+d.Date, fmt.Sprintf("locked day returned %d, want 403", status))
		}
	}
	tr.recordSuccess(fmt.Sprintf("Checked %d day details against lock state", len(days)))

	if status, _ := tr.getData("/api/v1/days/1999-01-01", nil); status != http.StatusNotFound {
		tr.recordError("Day outside period", fmt.Sprintf("status %d, want 404", status))
	} else {
		tr.recordSuccess("Day outside period returns 404")
	}
}

func (tr *TestRunner) testEvents() {
	tr.printSection("Events")

	if status, _ := tr.getData("/api/v1/events/0", nil); status != http.StatusNotFound {
		tr.recordError("Events day 0", fmt.Sprintf("status %d, want 404", status))
	} else {
		tr.recordSuccess("Day 0 returns 404")
	}
	if status, _ := tr.getData("/api/v1/events/x", nil); status != http.StatusBadRequest {
		tr.recordError("Events day x", fmt.Sprintf("status %d, want 400", status))
	} else {
		tr.recordSuccess("Non-numeric day returns 400")
	}
}

func (tr *TestRunner) testCalendar() {
	tr.printSection("Calendar Feed")

	resp, err := tr.client.Get(tr.baseURL + "/api/v1/calendar.ics")
	if err != nil {
		tr.recordError("Calendar", err.Error())
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tr.recordError("Calendar", err.Error())
		return
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") {
		tr.recordError("Calendar", "unexpected content type "+resp.Header.Get("Content-Type"))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Feed with %d events", strings.Count(string(body), "BEGIN:VEVENT")))
}

func (tr *TestRunner) testNotes(days []DayCell) {
	tr.printSection("Notes")

	var notes []StoredNote
	if _, err := tr.getData("/api/v1/notes", &notes); err != nil {
		tr.recordError("List notes", err.Error())
		return
	}

	open, ok := freeNoteDay(days, notes)
	if !ok {
		tr.recordSuccess("No unlocked day without a note, skipping note round trip")
		return
	}

	path := "/api/v1/days/" + open.Date + "/note"
	body := `{"note":"apitest ` + time.Now().Format(time.RFC3339) + `"}`
	if status, err := tr.send(http.MethodPut, path, body); err != nil {
		tr.recordError("Put note", fmt.Sprintf("%d: %v", status, err))
		return
	}
	tr.recordSuccess("Saved note for " + open.Date)

	if status, err := tr.send(http.MethodDelete, path, ""); err != nil {
		tr.recordError("Delete note", fmt.Sprintf("%d: %v", status, err))
		return
	}
	tr.recordSuccess("Deleted note for " + open.Date)
}

// freeNoteDay returns the latest unlocked day that has no stored note, so the
// round trip never overwrites or deletes a note someone wrote.
func freeNoteDay(days []DayCell, notes []StoredNote) (DayCell, bool) {
	taken := make(map[string]bool, len(notes))
	for _, n := range notes {
		taken[n.Date] = true
	}

	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Unlocked && !taken[days[i].Date] {
			return days[i], true
		}
	}
	return DayCell{}, false
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the envelope's data into target, which
// may be nil. The status code is returned even on error.
func (tr *TestRunner) getData(path string, target interface{}) (int, error) {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return decode(resp, target)
}

func (tr *TestRunner) send(method, path, body string) (int, error) {
	req, err := http.NewRequest(method, tr.baseURL+path, bytes.NewBufferString(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", tr.apiKey)

	resp, err := tr.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return decode(resp, nil)
}

func decode(resp *http.Response, target interface{}) (int, error) {
	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return resp.StatusCode, fmt.Errorf("API error: %s", errMsg)
	}

	if target == nil {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}

	fmt.Println("All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("RAMADAN_API_KEY"), "API key for the note round trip (skipped when empty)")
	verbose := flag.Bool("v", false, "Verbose output (show the day grid)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
