// ABOUTME: Test helper building a store against an in-process mock backend
// ABOUTME: Shared by the surface packages so each test starts from the same demo data
package storetest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harperreed/crmdesk/api"
	"github.com/harperreed/crmdesk/mockapi"
	"github.com/harperreed/crmdesk/store"
	"github.com/stretchr/testify/require"
)

const Token = "test-token"

// NewStore returns an empty store wired to a fresh mock backend.
func NewStore(t *testing.T, opts ...store.Option) (*store.Store, *mockapi.Server, func()) {
	t.Helper()
	backend := mockapi.New(Token)
	srv := httptest.NewServer(backend.Handler())

	client, err := api.New(srv.URL, Token, 5*time.Second)
	require.NoError(t, err)

	return store.New(client, opts...), backend, srv.Close
}

// NewDemoStore seeds the demo dataset and fetches every slice.
func NewDemoStore(t *testing.T, opts ...store.Option) (*store.Store, *mockapi.Server, func()) {
	t.Helper()
	s, backend, cleanup := NewStore(t, opts...)
	require.NoError(t, mockapi.SeedDemo(backend))
	require.NoError(t, s.FetchAll(context.Background()))
	return s, backend, cleanup
}
