// ABOUTME: Flag helpers shared by the CLI commands
// ABOUTME: Tracks which flags were set so updates only send changed fields
package cli

import (
	"flag"
	"fmt"
	"strconv"
)

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// setFlags returns the names of flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func stringIfSet(set map[string]bool, name string, v *string) *string {
	if !set[name] {
		return nil
	}
	return v
}

func intIfSet(set map[string]bool, name string, v *int) *int {
	if !set[name] {
		return nil
	}
	return v
}

func int64IfSet(set map[string]bool, name string, v *int64) *int64 {
	if !set[name] {
		return nil
	}
	return v
}

func float64IfSet(set map[string]bool, name string, v *float64) *float64 {
	if !set[name] {
		return nil
	}
	return v
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// parseIDArg parses the single positional id argument.
func parseIDArg(fs *flag.FlagSet, what string) (int64, error) {
	if fs.NArg() < 1 {
		return 0, fmt.Errorf("%s ID required", what)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, fs.Arg(0))
	}
	return id, nil
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
