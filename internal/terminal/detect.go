// Package terminal provides terminal detection and key-press utilities.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	isTerminal = term.IsTerminal
	makeRaw    = term.MakeRaw
	restore    = term.Restore
)

// IsInteractive reports whether stdin and stdout are both interactive terminals.
func IsInteractive() bool {
	return isTerminal(int(os.Stdin.Fd())) && isTerminal(int(os.Stdout.Fd()))
}

// WaitForKey prints prompt to out and blocks until one key is read from in.
// When in is a terminal it is switched to raw mode so any single key press returns;
// otherwise a full line is consumed. EOF is not an error.
func WaitForKey(in *os.File, out io.Writer, prompt string) error {
	if _, err := fmt.Fprintln(out, prompt); err != nil {
		return err
	}
	fd := int(in.Fd())
	if !isTerminal(fd) {
		_, err := bufio.NewReader(in).ReadString('\n')
		if err == io.EOF {
			return nil
		}
		return err
	}
	state, err := makeRaw(fd)
	if err != nil {
		return err
	}
	defer func() { _ = restore(fd, state) }()

	buf := make([]byte, 1)
	if _, err := in.Read(buf); err != nil && err != io.EOF {
		return err
	}
	return nil
}
