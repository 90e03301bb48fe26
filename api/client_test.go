// ABOUTME: Tests for the backend HTTP client
// ABOUTME: Uses httptest servers to check headers, errors, envelopes and cancellation
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c, err := New(srv.URL+"/api/", "tok123", 5*time.Second)
	require.NoError(t, err)
	return c, srv.Close
}

func TestClientSendsHeadersAndBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotHeaders http.Header
	var gotBody map[string]any

	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotHeaders = r.Method, r.URL.Path, r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"first_name":"Lina"}`))
	})
	defer cleanup()

	var out contact
	err := c.Post(context.Background(), "/contacts", map[string]string{"first_name": "Lina"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/contacts", gotPath)
	assert.Equal(t, "Bearer tok123", gotHeaders.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "true", gotHeaders.Get("ngrok-skip-browser-warning"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-ID"))
	assert.Equal(t, "Lina", gotBody["first_name"])
	assert.Equal(t, contact{ID: 9, FirstName: "Lina"}, out)
}

func TestClientHTTPErrorUsesBody(t *testing.T) {
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("  email has already been taken\n"))
	})
	defer cleanup()

	err := c.Patch(context.Background(), "/users/3", map[string]string{}, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Equal(t, http.MethodPatch, httpErr.Method)
	assert.Equal(t, "/users/3", httpErr.Path)
	assert.Equal(t, "email has already been taken", err.Error())
}

func TestClientHTTPErrorWithoutBody(t *testing.T) {
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer cleanup()

	err := c.Get(context.Background(), "roles/search", nil)
	assert.EqualError(t, err, "GET /roles/search failed with 500")
}

func TestClientEmptyBodyLeavesOutUntouched(t *testing.T) {
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	defer cleanup()

	out := contact{ID: 1}
	require.NoError(t, c.Post(context.Background(), "/users/1/delete", nil, &out))
	assert.Equal(t, int64(1), out.ID)
}

func TestClientHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer cleanup()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Get(ctx, "/contacts", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("crm.example.com/api", "", 0)
	assert.Error(t, err)
}

func TestDecodeListShapes(t *testing.T) {
	for name, raw := range map[string]string{
		"bare":     `[{"id":1},{"id":2}]`,
		"keyed":    `{"contacts":[{"id":1},{"id":2}]}`,
		"data":     `{"data":[{"id":1},{"id":2}]}`,
		"nested":   `{"data":{"contacts":[{"id":1},{"id":2}]}}`,
		"whitepad": "\n [{\"id\":1},{\"id\":2}] ",
	} {
		list, err := DecodeList[contact](json.RawMessage(raw), "contacts")
		require.NoError(t, err, name)
		require.Len(t, list, 2, name)
		assert.Equal(t, int64(2), list[1].ID, name)
	}

	empty, err := DecodeList[contact](json.RawMessage(`null`), "contacts")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = DecodeList[contact](json.RawMessage(`{"items":[]}`), "contacts")
	assert.Error(t, err)
}

func TestDecodeOneShapes(t *testing.T) {
	for name, raw := range map[string]string{
		"bare":  `{"id":5,"first_name":"Noor"}`,
		"keyed": `{"contact":{"id":5,"first_name":"Noor"}}`,
		"data":  `{"data":{"id":5,"first_name":"Noor"}}`,
	} {
		c, err := DecodeOne[contact](json.RawMessage(raw), "contact")
		require.NoError(t, err, name)
		assert.Equal(t, contact{ID: 5, FirstName: "Noor"}, c, name)
	}

	_, err := DecodeOne[contact](nil, "contact")
	assert.Error(t, err)
}
