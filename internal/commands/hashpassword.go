package commands

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"tripboard/internal/web"
)

// HashPassword handles the hash-password subcommand. It prompts for a
// password twice and prints the Argon2id hash to paste into the
// basic_auth section of the config file.
func HashPassword(args []string) {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	insecureUnmask := fs.Bool("insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	_ = fs.Parse(args)

	password := readPassword("Password: ", *insecureUnmask)
	if password == "" {
		fmt.Fprintln(os.Stderr, "empty password, aborting")
		os.Exit(1)
	}
	confirm := readPassword("Confirm password: ", *insecureUnmask)
	if password != confirm {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	hash, err := web.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Put this into config.yaml under basic_auth.password_hash:")
	fmt.Println()
	fmt.Println(hash)
}

// readPassword reads a password from stdin. Masked input needs a real
// terminal; piped stdin falls back to a plain line read.
func readPassword(prompt string, unmask bool) string {
	fmt.Print(prompt)

	if unmask || !term.IsTerminal(int(syscall.Stdin)) {
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		return strings.TrimRight(line, "\r\n")
	}

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}
