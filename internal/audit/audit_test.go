package audit

import (
	"os"
	"strings"
	"testing"
)

func TestLogCreatesAndAppends(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	Log(Entry{User: "alice", Operation: "encrypt", Recipients: 3})
	Log(Entry{User: "bob", Operation: "decrypt", Fingerprint: "00112233445566778899aabbccddeeff"})

	logPath := LogPath()
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("audit log was not created: %v", err)
	}

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != "encrypt" || entries[0].Recipients != 3 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Fingerprint != "00112233445566778899aabbccddeeff" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
	if entries[0].Timestamp == "" {
		t.Error("expected timestamp to be filled in")
	}
}

func TestReadEntriesMissingLog(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestParseEntriesSkipsMalformedLines(t *testing.T) {
	data := strings.Join([]string{
		`{"ts":"2026-01-02T03:04:05.000000Z","user":"alice","op":"encrypt"}`,
		`not json at all`,
		`{"ts":"2026-01-02T03:04:06.000000Z","user":"bob","op":"decrypt"}`,
	}, "\n")

	entries, err := ParseEntries([]byte(data))
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].User != "bob" {
		t.Errorf("unexpected entry after malformed line: %+v", entries[1])
	}
}
