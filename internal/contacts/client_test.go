package contacts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lylebot/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer is an in-memory contact backend that records every request
// it sees, used to assert exactly-one-request semantics.
type recordingServer struct {
	mu       sync.Mutex
	requests []string // "METHOD path"
	contacts []Contact
	nextID   int
	srv      *httptest.Server
}

func newRecordingServer(t *testing.T) *recordingServer {
	rs := &recordingServer{nextID: 1}
	mux := http.NewServeMux()

	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		rs.record(r)
		rs.mu.Lock()
		defer rs.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"contacts": rs.contacts})
	})
	mux.HandleFunc("/create_contact", func(w http.ResponseWriter, r *http.Request) {
		rs.record(r)
		var f Fields
		json.NewDecoder(r.Body).Decode(&f)
		rs.mu.Lock()
		rs.contacts = append(rs.contacts, Contact{ID: rs.nextID, FirstName: f.FirstName, LastName: f.LastName, Email: f.Email})
		rs.nextID++
		rs.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "User created!"})
	})
	mux.HandleFunc("/update_contact/", func(w http.ResponseWriter, r *http.Request) {
		rs.record(r)
		json.NewEncoder(w).Encode(map[string]string{"message": "User updated"})
	})
	mux.HandleFunc("/delete_contact/", func(w http.ResponseWriter, r *http.Request) {
		rs.record(r)
		rs.mu.Lock()
		if len(rs.contacts) > 0 {
			rs.contacts = rs.contacts[:len(rs.contacts)-1]
		}
		rs.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"message": "User deleted successfully"})
	})
	mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		rs.record(r)
		json.NewEncoder(w).Encode(map[string]any{"logs": []string{"LOGGED MESSAGE: boot"}})
	})

	rs.srv = httptest.NewServer(mux)
	t.Cleanup(rs.srv.Close)
	return rs
}

func (rs *recordingServer) record(r *http.Request) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.requests = append(rs.requests, r.Method+" "+r.URL.Path)
}

func (rs *recordingServer) seen() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.requests...)
}

func (rs *recordingServer) client() *Client {
	return NewClient(api.New(rs.srv.URL, time.Second, nil), nil)
}

func TestSave_CreateIssuesOnePost(t *testing.T) {
	rs := newRecordingServer(t)
	c := rs.client()

	err := c.Save(context.Background(), 0, Fields{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /create_contact"}, rs.seen())
}

func TestSave_UpdateIssuesOnePatch(t *testing.T) {
	rs := newRecordingServer(t)
	c := rs.client()

	err := c.Save(context.Background(), 42, Fields{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PATCH /update_contact/42"}, rs.seen())
}

func TestSave_MissingFieldsNeverHitNetwork(t *testing.T) {
	rs := newRecordingServer(t)
	c := rs.client()

	err := c.Save(context.Background(), 0, Fields{FirstName: "Jane"})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Empty(t, rs.seen())
}

func TestSave_ServerErrorSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"UNIQUE constraint failed: contact.email"}`))
	}))
	defer srv.Close()

	c := NewClient(api.New(srv.URL, time.Second, nil), nil)
	err := c.Save(context.Background(), 0, Fields{FirstName: "Jane", LastName: "Doe", Email: "dup@x.com"})

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Detail, "UNIQUE constraint")
}

func TestGenerateEmail_EmptyInputsAbortBeforeNetwork(t *testing.T) {
	rs := newRecordingServer(t)
	c := rs.client()

	_, err := c.GenerateEmail(context.Background(), "", "follow up")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = c.GenerateEmail(context.Background(), "Jane", "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	assert.Empty(t, rs.seen())
}

func TestGenerateEmail_ParsesContactAndContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		assert.Equal(t, "Jane", in["query"])
		assert.Equal(t, "intro call", in["purpose"])
		json.NewEncoder(w).Encode(map[string]any{
			"contact":      Contact{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"},
			"emailContent": "Subject: Hello\n\nHi Jane,",
		})
	}))
	defer srv.Close()

	c := NewClient(api.New(srv.URL, time.Second, nil), nil)
	got, err := c.GenerateEmail(context.Background(), "Jane", "intro call")
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", got.Contact.Email)
	assert.Contains(t, got.Content, "Subject: Hello")
}

// TestLifecycle_CreateListDelete covers the end-to-end scenario: empty list,
// create Jane, list shows one row on one page, delete, list empty again.
func TestLifecycle_CreateListDelete(t *testing.T) {
	rs := newRecordingServer(t)
	c := rs.client()
	ctx := context.Background()

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, TotalPages(len(list), 10))

	require.NoError(t, c.Save(ctx, 0, Fields{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"}))

	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane", list[0].FirstName)
	assert.Equal(t, 1, TotalPages(len(list), 10))

	require.NoError(t, c.Delete(ctx, list[0].ID))

	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLogs(t *testing.T) {
	rs := newRecordingServer(t)
	logs, err := rs.client().Logs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"LOGGED MESSAGE: boot"}, logs)
}
