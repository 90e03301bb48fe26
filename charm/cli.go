// ABOUTME: CLI commands for the snapshot cache
// ABOUTME: Lists, syncs and clears cached slice lists

package charm

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// CacheStatusCommand prints every snapshot with its age and size.
func CacheStatusCommand(c *Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("cache status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	snapshots, err := NewSnapshotCache(c).List()
	if err != nil {
		return err
	}

	cfg := c.Config()
	fmt.Fprintf(out, "Server:    %s\n", cfg.Host)
	fmt.Fprintf(out, "Auto-sync: %v\n\n", cfg.AutoSync)

	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No snapshots cached.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLICE\tITEMS\tSAVED\tSTATE")
	for _, s := range snapshots {
		state := "fresh"
		if s.Stale {
			state = "stale"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Name, s.Count, s.SavedAt.Local().Format(time.RFC3339), state)
	}
	return w.Flush()
}

// CacheSyncCommand pushes and pulls snapshots with the charm server.
func CacheSyncCommand(c *Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("cache sync", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Synced")
	return nil
}

// CacheClearCommand deletes every snapshot. It requires --confirm.
func CacheClearCommand(c *Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("cache clear", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "Confirm deleting all snapshots")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		fmt.Fprintln(out, "This deletes every cached list. To confirm, run:")
		fmt.Fprintln(out, "  crmdesk cache clear --confirm")
		return nil
	}

	n, err := NewSnapshotCache(c).Clear()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Removed %d snapshot(s)\n", n)
	return nil
}
