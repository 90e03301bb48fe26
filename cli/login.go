// ABOUTME: Login command storing the backend URL and bearer token
// ABOUTME: Prompts for the token without echo when it is not passed as a flag
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harperreed/crmdesk/api"
	"github.com/harperreed/crmdesk/config"
	"golang.org/x/term"
)

// LoginCommand checks the credentials against the backend and saves them.
func LoginCommand(cfg *config.Config, out io.Writer, args []string) error {
	fs := newFlagSet("login")
	apiURL := fs.String("url", cfg.APIURL, "Backend base URL")
	token := fs.String("token", "", "Bearer token (prompted when omitted)")
	skipCheck := fs.Bool("no-verify", false, "Save without contacting the backend")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("--token is required when stdin is not a terminal")
		}
		fmt.Fprint(out, "API token: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		*token = strings.TrimSpace(string(raw))
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(*apiURL), "/")
	cfg.APIToken = *token
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !*skipCheck {
		if err := verifyLogin(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Logged in to %s\n", cfg.APIURL)
	fmt.Fprintf(out, "  Config: %s\n", config.Path())
	return nil
}

func verifyLogin(cfg *config.Config) error {
	client, err := api.New(cfg.APIURL, cfg.APIToken, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	var roles any
	if err := client.Get(context.Background(), "/roles/search", &roles); err != nil {
		return fmt.Errorf("backend rejected credentials: %w", err)
	}
	return nil
}
