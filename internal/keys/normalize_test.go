package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func rsaKeyLine(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	pub, err := ssh.NewPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("failed to build ssh public key: %v", err)
	}
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub))), priv
}

func ed25519KeyLine(t *testing.T) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate ed25519 key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("failed to build ssh public key: %v", err)
	}
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
}

func TestNormalizeStripsOptionsAndComments(t *testing.T) {
	line, _ := rsaKeyLine(t)
	raw := `command="echo hi",no-pty,no-agent-forwarding ` + line + ` alice@workstation`

	records := Normalize(raw, "alice")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.Algorithm != AlgorithmRSA {
		t.Errorf("algorithm = %v, want rsa", r.Algorithm)
	}
	if r.Identifier != "alice" {
		t.Errorf("identifier = %q, want alice", r.Identifier)
	}
	if strings.Contains(r.Material, "command=") || strings.Contains(r.Material, "workstation") {
		t.Errorf("options or original comment survived normalization: %q", r.Material)
	}
	if !strings.HasSuffix(r.Material, " alice") {
		t.Errorf("label not attached as in-band comment: %q", r.Material)
	}
	fields := strings.Fields(r.Material)
	if len(fields) != 3 || fields[0] != "ssh-rsa" {
		t.Errorf("material not in canonical type/material/label form: %q", r.Material)
	}
}

func TestNormalizeDropsUnrecognizableLines(t *testing.T) {
	line, _ := rsaKeyLine(t)
	raw := strings.Join([]string{
		"# a comment line",
		"this is not key material at all",
		line,
		"ssh-rsa notbase64!!!",
		"",
	}, "\n")

	records := Normalize(raw, "bob")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (only the valid line)", len(records))
	}
}

func TestNormalizeKeepsUnsupportedAlgorithmsForConverter(t *testing.T) {
	records := Normalize(ed25519KeyLine(t), "carol")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Algorithm != AlgorithmUnsupported {
		t.Errorf("algorithm = %v, want unsupported", records[0].Algorithm)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize("", "nobody"); len(got) != 0 {
		t.Errorf("got %d records from empty input", len(got))
	}
}

func TestNormalizeFileDerivesIdentifierFromFilename(t *testing.T) {
	line, _ := rsaKeyLine(t)
	records := NormalizeFile([]byte(line), "/home/dave/.ssh/dave.pub")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Identifier != "dave" {
		t.Errorf("identifier = %q, want dave", records[0].Identifier)
	}
}

func TestDedupeMergesAndSorts(t *testing.T) {
	lineA, _ := rsaKeyLine(t)
	lineB, _ := rsaKeyLine(t)

	batchOne := Normalize(lineA+"\n"+lineB, "team")
	// Same key under a different label must collapse.
	batchTwo := Normalize(lineA, "alice-again")

	merged := Dedupe(batchOne, batchTwo)
	if len(merged) != 2 {
		t.Fatalf("got %d records after dedupe, want 2", len(merged))
	}
	if merged[0].Material > merged[1].Material {
		t.Error("records not sorted")
	}
}

func TestConvertBatchSkipsWithoutAborting(t *testing.T) {
	lineA, _ := rsaKeyLine(t)
	records := Normalize(lineA+"\n"+ed25519KeyLine(t), "mixed")

	converted, skipped, err := ConvertBatch(records)
	if err != nil {
		t.Fatalf("ConvertBatch failed: %v", err)
	}
	if len(converted) != 1 {
		t.Errorf("converted = %d, want 1", len(converted))
	}
	if len(skipped) != 1 {
		t.Errorf("skipped = %d, want 1", len(skipped))
	}
	if len(converted) == 1 && converted[0].Key == nil {
		t.Error("converted key missing RSA public key")
	}
}

func TestConvertBatchEmptyResultIsFatal(t *testing.T) {
	records := Normalize(ed25519KeyLine(t), "no-rsa")

	_, _, err := ConvertBatch(records)
	if err == nil {
		t.Fatal("expected fatal error for batch with zero convertible keys")
	}
}
