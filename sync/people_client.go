// ABOUTME: Google People API client for contacts import
// ABOUTME: Wraps the People service behind a paged source the importer reads from
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

const personFields = "names,emailAddresses,phoneNumbers"

// PeopleSource returns one page of connections and the next page token.
type PeopleSource interface {
	Connections(ctx context.Context, pageToken string) ([]*people.Person, string, error)
}

// PeopleClient reads the authenticated user's connections.
type PeopleClient struct {
	service *people.Service
}

// NewPeopleClient creates a new Google People API client.
func NewPeopleClient(ctx context.Context, token *oauth2.Token) (*PeopleClient, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	client := NewOAuthConfig().Client(ctx, token)

	service, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &PeopleClient{service: service}, nil
}

// Connections implements PeopleSource.
func (c *PeopleClient) Connections(ctx context.Context, pageToken string) ([]*people.Person, string, error) {
	call := c.service.People.Connections.List("people/me").
		PageSize(1000).
		PersonFields(personFields).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch contacts: %w", err)
	}
	if response == nil {
		return nil, "", nil
	}
	return response.Connections, response.NextPageToken, nil
}
