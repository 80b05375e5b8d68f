// Command hashkey prints the bcrypt hash to use as admin.key_hash
// (ADMIN_KEY_HASH). The key is read from -key or, when omitted, from the
// first line of standard input.
//
//	echo -n "$ADMIN_KEY" | go run ./cmd/hashkey
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudevolvers/catalog/internal/pkg/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hashkey:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("hashkey", flag.ContinueOnError)
	key := fs.String("key", "", "admin key to hash (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	value := *key
	if value == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read key: %w", err)
		}
		value = strings.TrimRight(line, "\r\n")
	}
	if value == "" {
		return errors.New("empty key")
	}

	hash, err := auth.HashPassword(value)
	if err != nil {
		return fmt.Errorf("hash key: %w", err)
	}
	_, err = fmt.Fprintln(stdout, hash)
	return err
}
