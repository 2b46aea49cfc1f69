// Command provision creates the credential material for a new forum identity.
// Identities are only ever created out of band; this tool prints the INSERT
// statement to run against the database, it does not connect itself.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/forumlab/webforum/internal/server/auth"
	"github.com/pquerna/otp/totp"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	in := bufio.NewReader(os.Stdin)

	name, err := prompt(in, "Display name: ")
	if err != nil {
		return err
	}
	email, err := prompt(in, "Email: ")
	if err != nil {
		return err
	}
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("name and a valid email are required")
	}

	adminAnswer, err := prompt(in, "Admin? [y/N]: ")
	if err != nil {
		return err
	}
	isAdmin := strings.EqualFold(adminAnswer, "y") || strings.EqualFold(adminAnswer, "yes")

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	salt, hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	totpSecret := "NULL"
	if isAdmin {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      "webforum",
			AccountName: email,
		})
		if err != nil {
			return fmt.Errorf("generating totp secret: %w", err)
		}
		fmt.Println()
		fmt.Println("TOTP secret (enrol it in an authenticator app now):")
		fmt.Println("  secret:", key.Secret())
		fmt.Println("  url:   ", key.URL())
		totpSecret = "'" + key.Secret() + "'"
	}

	fmt.Println()
	fmt.Println("Run this against the forum database:")
	fmt.Printf("INSERT INTO users (email, name, password_salt, password_hash, is_admin, totp_secret)\n")
	fmt.Printf("VALUES ('%s', '%s', '%s', '%s', %t, %s);\n",
		email, name, salt, hash, isAdmin, totpSecret)

	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
