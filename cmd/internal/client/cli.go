package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const usage = `usage: authctl [-server URL] <command> [flags]

commands:
  signup -u NAME [-p PASSWORD]   register a new user
  signin -u NAME [-p PASSWORD]   print the identity token for valid credentials
  delete -t TOKEN                delete the user owning TOKEN
`

var errUsage = errors.New("usage")

// Run executes one authctl invocation and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := run(ctx, args, stdout, stderr); err != nil {
		if !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintln(stderr, "error:", err)
		}
		return 1
	}
	return 0
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := LoadConfig()

	fs := flag.NewFlagSet("authctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(stderr, usage) }
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "authd base URL")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}

	c, err := New(cfg, nil)
	if err != nil {
		return err
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "signup":
		return signUp(ctx, c, cmdArgs, stdout, stderr)
	case "signin":
		return signIn(ctx, c, cmdArgs, stdout, stderr)
	case "delete":
		return deleteUser(ctx, c, cmdArgs, stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return errUsage
	}
}

func parseCredentials(name string, args []string, stderr io.Writer) (string, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return "", "", errUsage
	}
	if strings.TrimSpace(*username) == "" {
		_, _ = fmt.Fprintf(stderr, "%s: -u is required\n", name)
		return "", "", errUsage
	}

	pw := *password
	if pw == "" {
		var err error
		if pw, err = promptPassword(stderr); err != nil {
			return "", "", err
		}
	}
	return *username, pw, nil
}

func signUp(ctx context.Context, c *Client, args []string, stdout, stderr io.Writer) error {
	username, password, err := parseCredentials("signup", args, stderr)
	if err != nil {
		return err
	}
	if err := c.SignUp(ctx, username, password); err != nil {
		if IsUsernameTaken(err) {
			return fmt.Errorf("username %q is already taken", username)
		}
		return err
	}
	_, _ = fmt.Fprintf(stdout, "user %q created\n", username)
	return nil
}

func signIn(ctx context.Context, c *Client, args []string, stdout, stderr io.Writer) error {
	username, password, err := parseCredentials("signin", args, stderr)
	if err != nil {
		return err
	}
	token, err := c.SignIn(ctx, username, password)
	if err != nil {
		if IsInvalidCredentials(err) {
			return errors.New("invalid username or password")
		}
		return err
	}
	_, _ = fmt.Fprintln(stdout, token)
	return nil
}

func deleteUser(ctx context.Context, c *Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(stderr)
	token := fs.String("t", "", "identity token")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if strings.TrimSpace(*token) == "" {
		_, _ = fmt.Fprintln(stderr, "delete: -t is required")
		return errUsage
	}
	if err := c.Delete(ctx, *token); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, "deleted")
	return nil
}
