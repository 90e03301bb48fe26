// ABOUTME: Property and location CLI commands
// ABOUTME: Property listings show their location joined at read time
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"golang.org/x/sync/errgroup"
)

// ListLocationsCommand lists locations.
func ListLocationsCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("locations list")
	query := fs.String("query", "", "Search by label")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := s.FetchLocations(context.Background()); err != nil {
		return fmt.Errorf("failed to fetch locations: %w", err)
	}

	locations := store.FilterLocations(s.Locations.List(), *query)
	if len(locations) == 0 {
		fmt.Fprintln(out, "No locations found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLABEL\tCOMMUNITY\tCITY\tLAT\tLNG")
	_, _ = fmt.Fprintln(w, "--\t-----\t---------\t----\t---\t---")
	for _, l := range locations {
		parts := l.Parts()
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.4f\t%.4f\n",
			l.ID, l.Label, orDash(parts.Community), orDash(parts.City), l.Latitude, l.Longitude)
	}
	return w.Flush()
}

// AddLocationCommand creates a location.
func AddLocationCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("locations add")
	label := fs.String("label", "", "Label, e.g. \"Marina Gate 1, Dubai Marina, Dubai, UAE\" (required)")
	lat := fs.Float64("lat", 0, "Latitude")
	lng := fs.Float64("lng", 0, "Longitude")
	if err := fs.Parse(args); err != nil {
		return err
	}

	location, err := s.CreateLocation(context.Background(), models.LocationInput{
		Label:     *label,
		Latitude:  *lat,
		Longitude: *lng,
	})
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	fmt.Fprintf(out, "✓ Location created: %s (ID: %d)\n", location.Label, location.ID)
	return nil
}

// UpdateLocationCommand updates the flags given.
func UpdateLocationCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("locations update")
	label := fs.String("label", "", "Label")
	lat := fs.Float64("lat", 0, "Latitude")
	lng := fs.Float64("lng", 0, "Longitude")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "location")
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if len(set) == 0 {
		return fmt.Errorf("nothing to update")
	}

	_, err = s.UpdateLocation(context.Background(), id, models.LocationPatch{
		Label:     stringIfSet(set, "label", label),
		Latitude:  float64IfSet(set, "lat", lat),
		Longitude: float64IfSet(set, "lng", lng),
	})
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	fmt.Fprintf(out, "✓ Location %d updated\n", id)
	return nil
}

// DeleteLocationCommand soft-deletes a location.
func DeleteLocationCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("locations delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "location")
	if err != nil {
		return err
	}
	if err := s.DeleteLocation(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	fmt.Fprintf(out, "✓ Location %d deleted\n", id)
	return nil
}

// ListPropertiesCommand lists properties with their locations.
func ListPropertiesCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("properties list")
	query := fs.String("query", "", "Search by reference or title")
	propertyType := fs.String("type", "", "Filter by property type")
	minPrice := fs.Float64("min-price", 0, "Minimum price")
	maxPrice := fs.Float64("max-price", 0, "Maximum price")
	bedrooms := fs.Int("bedrooms", 0, "Minimum bedrooms")
	location := fs.Int64("location", 0, "Filter by location ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return s.FetchProperties(ctx) })
	g.Go(func() error { return s.FetchLocations(ctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fetch properties: %w", err)
	}

	matched := store.FilterProperties(s.Properties.List(), store.PropertyFilter{
		Query:        *query,
		PropertyType: *propertyType,
		MinPrice:     *minPrice,
		MaxPrice:     *maxPrice,
		MinBedrooms:  *bedrooms,
		LocationID:   *location,
	})
	if len(matched) == 0 {
		fmt.Fprintln(out, "No properties found")
		return nil
	}

	keep := make(map[int64]bool, len(matched))
	for _, p := range matched {
		keep[p.ID] = true
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tREF\tTITLE\tTYPE\tBEDS\tPRICE\tLOCATION")
	_, _ = fmt.Fprintln(w, "--\t---\t-----\t----\t----\t-----\t--------")
	for _, p := range s.PropertiesWithLocations() {
		if !keep[p.ID] {
			continue
		}
		location := "-"
		if p.Location != nil {
			location = p.Location.Parts().Short()
		} else if p.LocationID != nil {
			location = fmt.Sprintf("#%d (not loaded)", *p.LocationID)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.0f\t%s\n",
			p.ID, p.Reference, p.Title, orDash(p.PropertyType), p.Bedrooms, p.Price, location)
	}
	return w.Flush()
}

// AddPropertyCommand creates a property.
func AddPropertyCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("properties add")
	reference := fs.String("ref", "", "Reference number (required)")
	title := fs.String("title", "", "Title (required)")
	price := fs.Float64("price", 0, "Price")
	propertyType := fs.String("type", "", "Property type (required)")
	bedrooms := fs.Int("bedrooms", 0, "Bedrooms")
	bathrooms := fs.Int("bathrooms", 0, "Bathrooms")
	location := fs.Int64("location", 0, "Location ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	property, err := s.CreateProperty(context.Background(), models.PropertyInput{
		Reference:    *reference,
		Title:        *title,
		Price:        *price,
		PropertyType: *propertyType,
		Bedrooms:     *bedrooms,
		Bathrooms:    *bathrooms,
		LocationID:   optionalID(*location),
	})
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	fmt.Fprintf(out, "✓ Property created: %s %s (ID: %d)\n", property.Reference, property.Title, property.ID)
	return nil
}

// UpdatePropertyCommand updates the flags given.
func UpdatePropertyCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("properties update")
	reference := fs.String("ref", "", "Reference number")
	title := fs.String("title", "", "Title")
	price := fs.Float64("price", 0, "Price")
	propertyType := fs.String("type", "", "Property type")
	bedrooms := fs.Int("bedrooms", 0, "Bedrooms")
	bathrooms := fs.Int("bathrooms", 0, "Bathrooms")
	location := fs.Int64("location", 0, "Location ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "property")
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if len(set) == 0 {
		return fmt.Errorf("nothing to update")
	}

	_, err = s.UpdateProperty(context.Background(), id, models.PropertyPatch{
		Reference:    stringIfSet(set, "ref", reference),
		Title:        stringIfSet(set, "title", title),
		Price:        float64IfSet(set, "price", price),
		PropertyType: stringIfSet(set, "type", propertyType),
		Bedrooms:     intIfSet(set, "bedrooms", bedrooms),
		Bathrooms:    intIfSet(set, "bathrooms", bathrooms),
		LocationID:   int64IfSet(set, "location", location),
	})
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	fmt.Fprintf(out, "✓ Property %d updated\n", id)
	return nil
}

// DeletePropertyCommand soft-deletes a property.
func DeletePropertyCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("properties delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "property")
	if err != nil {
		return err
	}
	if err := s.DeleteProperty(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	fmt.Fprintf(out, "✓ Property %d deleted\n", id)
	return nil
}
