package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iho/goforecast/internal/domain"
	"github.com/iho/goforecast/internal/health"
	"github.com/iho/goforecast/internal/projection"
)

func writeSnapshot(t *testing.T) string {
	t.Helper()

	var projections []string
	for m := 2; m <= 11; m++ {
		projections = append(projections, fmt.Sprintf(
			`{"id": "p%d", "description": "Monthly", "amount": "100", "date": "2025-%02d-01"}`, m, m))
	}

	data := `{
		"categories": [
			{"id": "1", "name": "Loans", "type": "expense"},
			{"id": "2", "name": "Savings or Investments", "type": "expense"}
		],
		"goals": [{
			"id": "10", "user_id": "7", "name": "Emergency fund",
			"target_amount": "1000", "target_date": "2025-11-15", "yearly_interest_rate": "0",
			"projections": [` + strings.Join(projections, ",") + `]
		}]
	}`

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestGoalCommand(t *testing.T) {
	out, err := execute(t, "--snapshot", writeSnapshot(t), "--user", "7", "--today", "2025-01-15", "goal", "10")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	var result projection.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to decode output %q: %v", out, err)
	}

	if got := result.ProjectedBalance.StringFixed(2); got != "1000.00" {
		t.Fatalf("expected projected balance 1000.00, got %s", got)
	}
	if !result.IsOnTrack {
		t.Fatal("expected goal to be on track")
	}
}

func TestSeriesCommand(t *testing.T) {
	out, err := execute(t, "-s", writeSnapshot(t), "-u", "7", "--today", "2025-01-15", "series", "goal", "10")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	var series projection.Series
	if err := json.Unmarshal([]byte(out), &series); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}

	if len(series.Labels) == 0 || series.Labels[0] != "Jan 2025" {
		t.Fatalf("expected series to start in Jan 2025, got %v", series.Labels)
	}
}

func TestSeriesCommandRejectsUnknownKind(t *testing.T) {
	_, err := execute(t, "-s", writeSnapshot(t), "-u", "7", "series", "budget", "10")
	if err == nil || !strings.Contains(err.Error(), "goal or debt") {
		t.Fatalf("expected kind validation error, got %v", err)
	}
}

func TestHealthCommandForNewUser(t *testing.T) {
	out, err := execute(t, "-s", writeSnapshot(t), "-u", "99", "--today", "2025-06-18", "health")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	var report health.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}

	if report.TotalScore.String() != "25" || report.Grade != "F" {
		t.Fatalf("expected 25/F for a user without data, got %s/%s", report.TotalScore, report.Grade)
	}
}

func TestGoalCommandNotFound(t *testing.T) {
	_, err := execute(t, "-s", writeSnapshot(t), "-u", "8", "--today", "2025-01-15", "goal", "10")
	if !errors.Is(err, domain.ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound for another user's goal, got %v", err)
	}
}

func TestInvalidToday(t *testing.T) {
	_, err := execute(t, "-s", writeSnapshot(t), "-u", "7", "--today", "15.01.2025", "health")
	if err == nil || !strings.Contains(err.Error(), "--today") {
		t.Fatalf("expected --today validation error, got %v", err)
	}
}

func TestSnapshotFlagRequired(t *testing.T) {
	if _, err := execute(t, "-u", "7", "health"); err == nil {
		t.Fatal("expected error when --snapshot is missing")
	}
}

func TestUserFlagRequired(t *testing.T) {
	_, err := execute(t, "--snapshot", writeSnapshot(t), "goal", "10")
	if err == nil || !strings.Contains(err.Error(), `"user"`) {
		t.Fatalf("expected missing user flag error, got %v", err)
	}
}

func TestMigrateCommandDoesNotNeedSnapshot(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate", "up")
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected database URL error, got %v", err)
	}
}

func TestMigrateCommandRejectsUnknownAction(t *testing.T) {
	if _, err := execute(t, "migrate", "sideways", "--database-url", "postgres://localhost/forecast"); err == nil {
		t.Fatal("expected error for unknown migrate action")
	}
}

func TestMigrateCommandReportsDriverErrors(t *testing.T) {
	if _, err := execute(t, "migrate", "version", "--database-url", "nosuchdb://localhost/forecast"); err == nil {
		t.Fatal("expected error for unknown database driver")
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}
