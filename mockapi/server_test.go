// ABOUTME: Tests for the mock backend router
// ABOUTME: Exercises auth, envelopes, soft delete, contact .json paths and user deletion
package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRejectsMissingToken(t *testing.T) {
	h := New("tok").Handler()
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateListAndSoftDelete(t *testing.T) {
	h := New("tok").Handler()

	rec, resp := do(t, h, http.MethodPost, "/contacts", `{"first_name":"Omar","kind":"customer","brand_access":"probiz"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), created["id"])

	_, resp = do(t, h, http.MethodGet, "/contacts", "")
	assert.Len(t, resp.Data, 1)

	rec, _ = do(t, h, http.MethodPatch, "/contacts/1.json", `{"status":"deleted"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	_, resp = do(t, h, http.MethodGet, "/contacts", "")
	assert.Empty(t, resp.Data)

	rec, _ = do(t, h, http.MethodPatch, "/contacts/1.json", `{"status":"deleted"}`)
	assert.Equal(t, http.StatusOK, rec.Code, "repeated soft delete succeeds")
}

func TestCreateRequiresField(t *testing.T) {
	h := New("").Handler()

	rec, resp := do(t, h, http.MethodPost, "/locations", `{"latitude":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "label is required", resp.Error)
}

func TestPatchUnknownIDIsNotFound(t *testing.T) {
	h := New("").Handler()

	rec, resp := do(t, h, http.MethodPatch, "/leads/9", `{"status":"lost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "leads 9 not found", resp.Error)
}

func TestUserStatusIsTitleCasedAndDeleteIsHard(t *testing.T) {
	s := New("")
	h := s.Handler()

	id, err := s.Seed(Users, map[string]any{"first_name": "Hana", "email": "hana@example.com", "status": "active"})
	require.NoError(t, err)

	rec, resp := do(t, h, http.MethodPatch, "/users/1", `{"status":"inactive"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Inactive", resp.Data.(map[string]any)["status"])

	rec, _ = do(t, h, http.MethodPost, "/users/1/delete", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := s.Get(Users, id)
	assert.False(t, ok)
}

func TestLeadNotesAppend(t *testing.T) {
	s := New("")
	h := s.Handler()

	_, resp := do(t, h, http.MethodPost, "/leads", `{"contact_id":1,"brand":"real-estate","notes":[{"note":"first"}]}`)
	lead := resp.Data.(map[string]any)
	require.Len(t, lead["notes"], 1)

	_, resp = do(t, h, http.MethodPatch, "/leads/1", `{"notes":[{"note":"second"}]}`)
	notes := resp.Data.(map[string]any)["notes"].([]any)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[1].(map[string]any)["note"])
}

func TestRoleSearchEnvelope(t *testing.T) {
	s := New("")
	require.NoError(t, SeedDemo(s))

	req := httptest.NewRequest(http.MethodGet, "/roles/search?q=age", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body struct {
		Roles []map[string]any `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Roles, 1)
	assert.Equal(t, "Agent", body.Roles[0]["name"])
}
