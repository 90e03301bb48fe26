// ABOUTME: Dashboard, graph and activity log CLI commands
// ABOUTME: Read-only views over the loaded slices and the local activity log
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/harperreed/crmdesk/db"
	"github.com/harperreed/crmdesk/store"
	"github.com/harperreed/crmdesk/viz"
)

// DashboardCommand loads every slice and prints the dashboard. Slices that
// fail to load are listed under NEEDS ATTENTION.
func DashboardCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("dashboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_ = s.FetchAll(context.Background())

	fmt.Fprint(out, viz.RenderDashboard(viz.GenerateDashboardStats(s)))
	return nil
}

// GraphCommand writes a DOT graph of one lead, or of every lead.
func GraphCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("graph")
	output := fs.String("output", "", "Write DOT to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var leadID *int64
	if fs.NArg() > 0 {
		id, err := parseIDArg(fs, "lead")
		if err != nil {
			return err
		}
		leadID = &id
	}

	if err := s.FetchAll(context.Background()); err != nil {
		return fmt.Errorf("failed to fetch CRM data: %w", err)
	}

	dot, err := viz.NewGraphGenerator(s).GenerateLeadGraph(leadID)
	if err != nil {
		return err
	}

	if *output == "" {
		fmt.Fprint(out, dot)
		return nil
	}
	if err := os.WriteFile(*output, []byte(dot), 0644); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	fmt.Fprintf(out, "✓ Graph written to %s\n", *output)
	return nil
}

// ActivityCommand prints recent settled operations and counts per phase.
func ActivityCommand(database *sql.DB, out io.Writer, args []string) error {
	fs := newFlagSet("activity")
	slice := fs.String("slice", "", "Only show this slice (contacts, leads, ...)")
	limit := fs.Int("limit", 20, "Maximum entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := db.RecentActivity(database, *slice, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No activity recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tSLICE\tOP\tPHASE\tID\tERROR")
	_, _ = fmt.Fprintln(w, "----\t-----\t--\t-----\t--\t-----")
	for _, a := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.CreatedAt.Local().Format(time.DateTime), a.Slice, a.Op, a.Phase, idOrDash(a.EntityID), orDash(a.Error))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	counts, err := db.CountActivityByPhase(database, *slice)
	if err != nil {
		return err
	}
	phases := make([]string, 0, len(counts))
	for phase := range counts {
		phases = append(phases, phase)
	}
	sort.Strings(phases)

	fmt.Fprintln(out)
	for _, phase := range phases {
		fmt.Fprintf(out, "%s: %d\n", phase, counts[phase])
	}
	return nil
}
