package keysource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

const keyLine = "ssh-rsa AAAAB3NzaC1yc2EAAAADAQABAAAAgQDTest alice@example\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func TestFileProviderTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alice.pub", keyLine)

	p := FileProvider{Template: filepath.Join(dir, "{user}.pub")}

	text, err := p.Lookup(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !strings.Contains(text, "ssh-rsa") {
		t.Errorf("key text missing: %q", text)
	}

	// Unknown identifier yields zero keys, not an error.
	text, err = p.Lookup(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestFileProviderGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keys/bob/laptop.pub", keyLine)
	writeFile(t, dir, "keys/bob/desktop.pub", keyLine)

	p := FileProvider{Template: filepath.Join(dir, "keys", "{user}", "**", "*.pub")}

	text, err := p.Lookup(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := strings.Count(text, "ssh-rsa"); got != 2 {
		t.Errorf("got %d key lines, want 2", got)
	}
}

func TestReadKeyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "carol.pub", keyLine)

	mats, err := ReadKeyFiles([]string{filepath.Join(dir, "*.pub")})
	if err != nil {
		t.Fatalf("ReadKeyFiles failed: %v", err)
	}
	if len(mats) != 1 {
		t.Fatalf("got %d materials, want 1", len(mats))
	}
	if mats[0].Label != "carol" {
		t.Errorf("label = %q, want carol", mats[0].Label)
	}
}

func TestReadKeyFilesMissingIsFatal(t *testing.T) {
	_, err := ReadKeyFiles([]string{"/does/not/exist.pub"})
	if !errors.Is(err, serrors.ErrKeyFileUnreadable) {
		t.Errorf("got %v, want ErrKeyFileUnreadable", err)
	}

	_, err = ReadKeyFiles([]string{filepath.Join(t.TempDir(), "*.pub")})
	if !errors.Is(err, serrors.ErrKeyFileUnreadable) {
		t.Errorf("empty glob: got %v, want ErrKeyFileUnreadable", err)
	}
}

func TestDirectoryProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alice.keys":
			w.Write([]byte(keyLine)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewDirectoryProvider(srv.URL)

	text, err := p.Lookup(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !strings.Contains(text, "ssh-rsa") {
		t.Errorf("key text missing: %q", text)
	}

	// 404 means no published keys, not a failure.
	text, err = p.Lookup(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text for 404, got %q", text)
	}
}

func TestGroupProviderExpandsMembers(t *testing.T) {
	dir := t.TempDir()
	groupFile := writeFile(t, dir, "group",
		"root:x:0:\nauditors:x:1042:alice,bob\nempty:x:1043:\n")
	writeFile(t, dir, "alice.pub", keyLine)
	writeFile(t, dir, "bob.pub", keyLine)

	p := GroupProvider{
		Members:   FileProvider{Template: filepath.Join(dir, "{user}.pub")},
		GroupFile: groupFile,
	}

	text, err := p.Lookup(context.Background(), "auditors")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := strings.Count(text, "ssh-rsa"); got != 2 {
		t.Errorf("got %d key lines, want 2", got)
	}

	if _, err := p.Lookup(context.Background(), "missing-group"); err == nil {
		t.Error("expected error for unknown group")
	}
}

func TestChainPrefersFirstNonEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alice.pub", keyLine)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ssh-rsa AAAAfromdirectory dir@svc\n")) //nolint:errcheck
	}))
	defer srv.Close()

	chain := Chain{
		FileProvider{Template: filepath.Join(dir, "{user}.pub")},
		NewDirectoryProvider(srv.URL),
	}

	// Local file shadows the directory.
	text, err := chain.Lookup(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !strings.Contains(text, "alice@example") {
		t.Errorf("expected local key, got %q", text)
	}

	// Falls through to the directory when files have nothing.
	text, err = chain.Lookup(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !strings.Contains(text, "fromdirectory") {
		t.Errorf("expected directory key, got %q", text)
	}
}
