package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/frkn-dev/trialgate/internal/models"
	"github.com/google/uuid"
)

func testEntry(email string) *models.JournalEntry {
	return &models.JournalEntry{
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Email:     email,
		Telegram:  "@handle",
		SubID:     uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Env:       "dev",
	}
}

func TestAppendFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	j := New(path)

	if err := j.Append(testEntry("a@b.com")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := strings.TrimRight(string(data), "\n")
	want := "2026-08-30T12:00:00Z,a@b.com,@handle,11111111-1111-1111-1111-111111111111,dev"
	if got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestAppendStripsCommasFromTelegram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	j := New(path)

	entry := testEntry("a@b.com")
	entry.Telegram = "@evil,handle"
	if err := j.Append(entry); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, _ := os.ReadFile(path)
	fields := strings.Split(strings.TrimRight(string(data), "\n"), ",")
	if len(fields) != 5 {
		t.Fatalf("got %d fields, want 5: %q", len(fields), string(data))
	}
	if fields[2] != "@evilhandle" {
		t.Errorf("telegram field = %q, want %q", fields[2], "@evilhandle")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	j := New(path)

	emails := []string{"a@b.com", "c@d.com", "e@f.com"}
	for _, email := range emails {
		if err := j.Append(testEntry(email)); err != nil {
			t.Fatalf("Append(%s): %v", email, err)
		}
	}

	index, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(index) != len(emails) {
		t.Fatalf("index has %d entries, want %d", len(index), len(emails))
	}
	for _, email := range emails {
		ts, ok := index[email]
		if !ok {
			t.Errorf("email %s missing from index", email)
			continue
		}
		if !ts.Equal(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("timestamp for %s = %v", email, ts)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	index, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
	if len(index) != 0 {
		t.Errorf("index has %d entries, want 0", len(index))
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	content := strings.Join([]string{
		"not-a-timestamp,bad@example.com,,id,dev",
		"2026-08-30T12:00:00Z,good@example.com,,11111111-1111-1111-1111-111111111111,dev",
		"loneField",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	index, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(index) != 1 {
		t.Fatalf("index has %d entries, want 1", len(index))
	}
	if _, ok := index["good@example.com"]; !ok {
		t.Error("good@example.com missing from index")
	}
}
