// ABOUTME: Team member and role CLI commands
// ABOUTME: Brand access accepts any brand spelling and is shown by name
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

// ListUsersCommand lists team members.
func ListUsersCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("users list")
	brand := fs.String("brand", "", "Only members covering this brand")
	status := fs.String("status", "", "Filter by status (active or inactive)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	if err := s.FetchUsers(ctx); err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	_ = s.FetchRoles(ctx)

	users := store.FilterUsers(s.Users.List(), *brand, *status)
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tBRAND\tSTATUS")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t----\t-----\t------")
	for _, u := range users {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name(), u.Email, roleName(s, u), u.BrandAccess, u.Status)
	}
	return w.Flush()
}

// AddUserCommand creates a team member.
func AddUserCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("users add")
	first := fs.String("first", "", "First name (required)")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	password := fs.String("password", "", "Initial password")
	role := fs.Int64("role", 0, "Role ID (required)")
	brand := fs.String("brand", models.BrandBoth, "Brand access: probiz, repro or both")
	status := fs.String("status", string(models.UserStatusActive), "Status: active or inactive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	access, ok := models.ParseBrand(*brand)
	if !ok {
		return fmt.Errorf("invalid brand: %s", *brand)
	}

	user, err := s.CreateUser(context.Background(), models.UserInput{
		FirstName:   *first,
		LastName:    *last,
		Email:       *email,
		Phone:       *phone,
		Password:    *password,
		RoleID:      *role,
		BrandAccess: access,
		Status:      models.UserStatus(*status),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprintf(out, "✓ User created: %s (ID: %d)\n", user.Name(), user.ID)
	return nil
}

// UpdateUserCommand updates the flags given.
func UpdateUserCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("users update")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	role := fs.Int64("role", 0, "Role ID")
	brand := fs.String("brand", "", "Brand access")
	status := fs.String("status", "", "Status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "user")
	if err != nil {
		return err
	}
	set := setFlags(fs)
	if len(set) == 0 {
		return fmt.Errorf("nothing to update")
	}

	patch := models.UserPatch{
		FirstName: stringIfSet(set, "first", first),
		LastName:  stringIfSet(set, "last", last),
		Email:     stringIfSet(set, "email", email),
		Phone:     stringIfSet(set, "phone", phone),
		RoleID:    int64IfSet(set, "role", role),
	}
	if set["brand"] {
		access, ok := models.ParseBrand(*brand)
		if !ok {
			return fmt.Errorf("invalid brand: %s", *brand)
		}
		patch.BrandAccess = &access
	}
	if set["status"] {
		st := models.UserStatus(*status)
		patch.Status = &st
	}

	if _, err := s.UpdateUser(context.Background(), id, patch); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	fmt.Fprintf(out, "✓ User %d updated\n", id)
	return nil
}

// DeleteUserCommand removes a team member.
func DeleteUserCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("users delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseIDArg(fs, "user")
	if err != nil {
		return err
	}
	if err := s.DeleteUser(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	fmt.Fprintf(out, "✓ User %d deleted\n", id)
	return nil
}

// ListRolesCommand lists roles.
func ListRolesCommand(s *store.Store, out io.Writer, args []string) error {
	fs := newFlagSet("roles list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.FetchRoles(context.Background()); err != nil {
		return fmt.Errorf("failed to fetch roles: %w", err)
	}

	roles := s.Roles.List()
	if len(roles) == 0 {
		fmt.Fprintln(out, "No roles found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tKEY")
	_, _ = fmt.Fprintln(w, "--\t----\t---")
	for _, r := range roles {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, orDash(r.Key))
	}
	return w.Flush()
}

func roleName(s *store.Store, u models.User) string {
	if u.Role != nil {
		return u.Role.Name
	}
	if u.RoleID != nil {
		if r, ok := s.Roles.Find(*u.RoleID); ok {
			return r.Name
		}
	}
	return "-"
}
