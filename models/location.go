// ABOUTME: Hierarchical location label parsing
// ABOUTME: Splits "subcommunity, community, city, country" labels into parts
package models

import "strings"

// LocationParts is a location label broken into its hierarchy levels.
type LocationParts struct {
	Subcommunity string `json:"subcommunity,omitempty"`
	Community    string `json:"community,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
}

// ParseLocationLabel splits a comma-delimited label. Parts are aligned from
// the right, so "Dubai Marina, Dubai, UAE" has no subcommunity. Anything
// beyond four levels is folded into the subcommunity.
func ParseLocationLabel(label string) LocationParts {
	var parts []string
	for _, p := range strings.Split(label, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var lp LocationParts
	n := len(parts)
	if n > 0 {
		lp.Country = parts[n-1]
	}
	if n > 1 {
		lp.City = parts[n-2]
	}
	if n > 2 {
		lp.Community = parts[n-3]
	}
	if n > 3 {
		lp.Subcommunity = strings.Join(parts[:n-3], ", ")
	}
	return lp
}

// String joins the non-empty levels back into a label.
func (lp LocationParts) String() string {
	var parts []string
	for _, p := range []string{lp.Subcommunity, lp.Community, lp.City, lp.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Short returns the most specific level present.
func (lp LocationParts) Short() string {
	for _, p := range []string{lp.Subcommunity, lp.Community, lp.City, lp.Country} {
		if p != "" {
			return p
		}
	}
	return ""
}
