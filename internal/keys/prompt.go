package keys

import (
	"fmt"
	"os"

	"golang.org/x/term"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// TerminalPrompt reads a passphrase from the controlling terminal. It
// deliberately refuses redirected input: opening /dev/tty directly means
// a passphrase can never be supplied through a pipe or heredoc, which
// keeps the derivation step out of reach of unattended automation and
// its logs.
func TerminalPrompt(hint string) ([]byte, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, serrors.ErrNoTerminal
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, serrors.ErrNoTerminal
	}

	fmt.Fprintf(tty, "Enter passphrase for %s: ", hint)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(tty)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return pass, nil
}
