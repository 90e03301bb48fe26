// ABOUTME: Google Contacts import command
// ABOUTME: Authorizes on first use, then creates or links backend contacts
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/harperreed/crmdesk/sync"
)

// ImportGoogleCommand imports Google contacts into the backend.
func ImportGoogleCommand(s *store.Store, database *sql.DB, out io.Writer, args []string) error {
	fs := newFlagSet("import-google")
	brandFlag := fs.String("brand", models.BrandBoth, "Brand access for new contacts (probiz, repro, both)")
	reauth := fs.Bool("auth", false, "Run the Google consent flow even if a token is stored")
	if err := fs.Parse(args); err != nil {
		return err
	}

	brand, ok := models.ParseBrand(*brandFlag)
	if !ok {
		return fmt.Errorf("invalid brand: %s", *brandFlag)
	}

	ctx := context.Background()

	token, err := sync.LoadToken()
	if err != nil || *reauth {
		oauthConfig, err := sync.ConfiguredOAuth()
		if err != nil {
			return err
		}
		token, err = sync.Authorize(ctx, oauthConfig, out)
		if err != nil {
			return err
		}
		if err := sync.SaveToken(token); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Token saved to %s\n\n", sync.TokenPath())
	}

	client, err := sync.NewPeopleClient(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Importing Google contacts...")
	summary, err := sync.ImportContacts(ctx, s, database, client, brand, out)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Imported: %d created, %d linked, %d already imported, %d ignored\n",
		summary.Created, summary.Linked, summary.Skipped, summary.Ignored)
	return nil
}
