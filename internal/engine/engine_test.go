package engine

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/sealbox/sealbox/internal/envelope"
	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/keys"
	"github.com/sealbox/sealbox/internal/keysource"
	"github.com/sealbox/sealbox/internal/seal"
	"github.com/sealbox/sealbox/internal/version"
)

type testRecipient struct {
	name    string
	priv    *rsa.PrivateKey
	privPEM []byte
	pubLine string
}

func newRecipient(t *testing.T, name string) testRecipient {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	pub, err := ssh.NewPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("failed to build ssh public key: %v", err)
	}
	pemBlock, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatalf("failed to marshal private key: %v", err)
	}
	return testRecipient{
		name:    name,
		priv:    priv,
		privPEM: pem.EncodeToMemory(pemBlock),
		pubLine: strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub))) + " " + name + "@host",
	}
}

func encryptFor(t *testing.T, payload []byte, inputName string, recipients ...testRecipient) *bytes.Buffer {
	t.Helper()
	var mats []keysource.Material
	for _, r := range recipients {
		mats = append(mats, keysource.Material{Label: r.name, Text: r.pubLine + "\n"})
	}

	var out bytes.Buffer
	_, err := Encrypt(context.Background(), EncryptOptions{
		Keys:      mats,
		Input:     bytes.NewReader(payload),
		InputName: inputName,
		Output:    &out,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	return &out
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	alice := newRecipient(t, "alice")
	payload := []byte("quarterly numbers, do not forward\n")

	env := encryptFor(t, payload, "numbers.txt", alice)

	var out bytes.Buffer
	result, err := Decrypt(context.Background(), DecryptOptions{
		PrivateKey: alice.privPEM,
		Input:      bytes.NewReader(env.Bytes()),
		Output:     &out,
	})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	if !bytes.Equal(out.Bytes(), payload) {
		t.Error("decrypted payload differs from original")
	}
	if result.PayloadName != "numbers.txt" {
		t.Errorf("payload name = %q, want numbers.txt", result.PayloadName)
	}
	if result.Producer != version.Current {
		t.Errorf("producer = %q, want %q", result.Producer, version.Current)
	}
}

func TestMultiRecipientAnyKeyDecrypts(t *testing.T) {
	alice := newRecipient(t, "alice")
	bob := newRecipient(t, "bob")
	carol := newRecipient(t, "carol")
	payload := []byte("for the whole team")

	env := encryptFor(t, payload, "", alice, bob, carol)

	for _, r := range []testRecipient{alice, bob, carol} {
		var out bytes.Buffer
		result, err := Decrypt(context.Background(), DecryptOptions{
			PrivateKey: r.privPEM,
			Input:      bytes.NewReader(env.Bytes()),
			Output:     &out,
		})
		if err != nil {
			t.Fatalf("%s could not decrypt: %v", r.name, err)
		}
		if !bytes.Equal(out.Bytes(), payload) {
			t.Errorf("%s recovered different plaintext", r.name)
		}
		if result.PayloadName != envelope.DefaultPayloadName {
			t.Errorf("unnamed input payload name = %q, want %q", result.PayloadName, envelope.DefaultPayloadName)
		}
	}
}

func TestDecryptNotForThisKey(t *testing.T) {
	alice := newRecipient(t, "alice")
	mallory := newRecipient(t, "mallory")

	env := encryptFor(t, []byte("alice only"), "", alice)

	var out bytes.Buffer
	_, err := Decrypt(context.Background(), DecryptOptions{
		PrivateKey: mallory.privPEM,
		Input:      bytes.NewReader(env.Bytes()),
		Output:     &out,
	})
	if !errors.Is(err, serrors.ErrNotForThisKey) {
		t.Errorf("got %v, want ErrNotForThisKey", err)
	}
	if out.Len() != 0 {
		t.Error("plaintext written despite failed recipient match")
	}
}

func TestEncryptEmptyRecipientSet(t *testing.T) {
	var out bytes.Buffer
	_, err := Encrypt(context.Background(), EncryptOptions{
		Keys:   []keysource.Material{{Label: "ghost", Text: "no keys here\n"}},
		Input:  strings.NewReader("payload"),
		Output: &out,
	})
	if !errors.Is(err, serrors.ErrNoUsableKeys) {
		t.Errorf("got %v, want ErrNoUsableKeys", err)
	}
	if out.Len() != 0 {
		t.Error("envelope bytes emitted despite empty recipient set")
	}

	_, err = Encrypt(context.Background(), EncryptOptions{
		Input:  strings.NewReader("payload"),
		Output: &out,
	})
	if !errors.Is(err, serrors.ErrNoUsableKeys) {
		t.Errorf("no materials at all: got %v, want ErrNoUsableKeys", err)
	}
}

func TestEncryptSkipsUnsupportedKeysButProceeds(t *testing.T) {
	alice := newRecipient(t, "alice")
	mixed := alice.pubLine + "\nssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIEb5xKk/1T9CTMN3uLO6bMDc8HyChHNEhn+eHx1nr2x3 ed@host\n"

	var out bytes.Buffer
	result, err := Encrypt(context.Background(), EncryptOptions{
		Keys:   []keysource.Material{{Label: "team", Text: mixed}},
		Input:  strings.NewReader("payload"),
		Output: &out,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(result.Recipients) != 1 {
		t.Errorf("recipients = %d, want 1", len(result.Recipients))
	}
	if len(result.Skipped) != 1 {
		t.Errorf("skipped = %d, want 1", len(result.Skipped))
	}
}

func TestDecryptMalformedInput(t *testing.T) {
	alice := newRecipient(t, "alice")

	var out bytes.Buffer
	_, err := Decrypt(context.Background(), DecryptOptions{
		PrivateKey: alice.privPEM,
		Input:      strings.NewReader("this stream has no blocks whatsoever\n"),
		Output:     &out,
	})
	if !errors.Is(err, serrors.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestDecryptMalformedPrivateKey(t *testing.T) {
	var out bytes.Buffer
	_, err := Decrypt(context.Background(), DecryptOptions{
		PrivateKey: []byte("not a key"),
		Input:      strings.NewReader(""),
		Output:     &out,
	})
	if !errors.Is(err, serrors.ErrInvalidPrivateKey) {
		t.Errorf("got %v, want ErrInvalidPrivateKey", err)
	}
}

// buildEnvelope assembles an envelope with an arbitrary manifest, the way
// an older or newer producer would.
func buildEnvelope(t *testing.T, payload []byte, m *version.Manifest, recipients ...testRecipient) *bytes.Buffer {
	t.Helper()
	sessionKey, err := seal.NewSessionKey()
	if err != nil {
		t.Fatalf("NewSessionKey failed: %v", err)
	}
	defer sessionKey.Destroy()

	encrypted, err := seal.EncryptPayload(sessionKey, payload)
	if err != nil {
		t.Fatalf("EncryptPayload failed: %v", err)
	}

	env := &envelope.Envelope{
		Payload:  envelope.Block{Name: "message", Data: encrypted},
		Manifest: m,
	}
	for _, r := range recipients {
		pub, err := ssh.NewPublicKey(r.priv.Public())
		if err != nil {
			t.Fatalf("failed to build ssh public key: %v", err)
		}
		wrapped, err := seal.Wrap(&r.priv.PublicKey, sessionKey)
		if err != nil {
			t.Fatalf("Wrap failed: %v", err)
		}
		env.Wrapped = append(env.Wrapped, envelope.Block{Name: keys.Fingerprint(pub), Data: wrapped})
	}

	var buf bytes.Buffer
	if err := envelope.Write(&buf, env); err != nil {
		t.Fatalf("envelope.Write failed: %v", err)
	}
	return &buf
}

// writeRawBlock emits one block the way pre-version producers did.
func writeRawBlock(buf *bytes.Buffer, b envelope.Block) {
	buf.WriteString("begin-base64 644 " + b.Name + "\n")
	buf.WriteString(base64.StdEncoding.EncodeToString(b.Data) + "\n")
	buf.WriteString("====\n")
}

func TestDecryptVersionGate(t *testing.T) {
	alice := newRecipient(t, "alice")
	payload := []byte("from an old producer")

	old := &version.Manifest{
		Producer:    "1.0.2",
		EncryptFor:  []string{"1.0"},
		DecryptFrom: []string{"1.0"},
	}
	env := buildEnvelope(t, payload, old, alice)

	var out bytes.Buffer
	_, err := Decrypt(context.Background(), DecryptOptions{
		PrivateKey: alice.privPEM,
		Input:      bytes.NewReader(env.Bytes()),
		Output:     &out,
	})
	if !errors.Is(err, serrors.ErrIncompatibleVersion) {
		t.Fatalf("got %v, want ErrIncompatibleVersion", err)
	}
	if out.Len() != 0 {
		t.Error("plaintext written despite version rejection")
	}

	// Expert mode acknowledges the risk and proceeds.
	out.Reset()
	result, err := Decrypt(context.Background(), DecryptOptions{
		PrivateKey: alice.privPEM,
		Input:      bytes.NewReader(env.Bytes()),
		Output:     &out,
		Expert:     true,
	})
	if err != nil {
		t.Fatalf("expert-mode Decrypt failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), payload) {
		t.Error("expert-mode plaintext differs from original")
	}
	if result.Producer != "1.0.2" {
		t.Errorf("producer = %q, want 1.0.2", result.Producer)
	}
}

func TestDecryptLegacyEnvelopeWithoutManifest(t *testing.T) {
	alice := newRecipient(t, "alice")
	payload := []byte("pre-version producer")

	sessionKey, err := seal.NewSessionKey()
	if err != nil {
		t.Fatalf("NewSessionKey failed: %v", err)
	}
	defer sessionKey.Destroy()
	encrypted, err := seal.EncryptPayload(sessionKey, payload)
	if err != nil {
		t.Fatalf("EncryptPayload failed: %v", err)
	}
	wrapped, err := seal.Wrap(&alice.priv.PublicKey, sessionKey)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	pub, err := ssh.NewPublicKey(alice.priv.Public())
	if err != nil {
		t.Fatalf("failed to build ssh public key: %v", err)
	}

	// Legacy producers emitted blocks without a version block; write
	// them by hand since the modern writer refuses to.
	var buf bytes.Buffer
	for _, b := range []envelope.Block{
		{Name: "message", Data: encrypted},
		{Name: keys.Fingerprint(pub), Data: wrapped},
	} {
		writeRawBlock(&buf, b)
	}

	var out bytes.Buffer
	result, err := Decrypt(context.Background(), DecryptOptions{
		PrivateKey: alice.privPEM,
		Input:      bytes.NewReader(buf.Bytes()),
		Output:     &out,
	})
	if err != nil {
		t.Fatalf("Decrypt failed on legacy envelope: %v", err)
	}
	if !bytes.Equal(out.Bytes(), payload) {
		t.Error("legacy plaintext differs from original")
	}
	if result.Producer != "" {
		t.Errorf("producer = %q, want empty for legacy envelope", result.Producer)
	}
}
