package options

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PasswordOptions controls how a password is read.
type PasswordOptions struct {
	Stdin bool
}

func AddPasswordArgs(cmd *cobra.Command, o *PasswordOptions) {
	cmd.Flags().BoolVar(&o.Stdin, "password-stdin", false,
		"Read the password from the first line of stdin instead of prompting.")
}

// Read prompts on stderr and reads without echo when stdin is a terminal.
func (o *PasswordOptions) Read(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if o.Stdin || !term.IsTerminal(fd) {
		return readLine(os.Stdin)
	}
	_, _ = fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
