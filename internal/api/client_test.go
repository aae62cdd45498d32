package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"query":"hello"}`, string(body))
		w.Write([]byte(`{"response":"hi"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	var out struct {
		Response string `json:"response"`
	}
	err := c.Post(context.Background(), "/chat/", map[string]string{"query": "hello"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Response)
}

func TestDo_NonOKBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Enter proper info"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	err := c.Post(context.Background(), "/create_contact", map[string]string{}, nil)
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Enter proper info", apiErr.Detail)
}

func TestDo_MessageFieldAlsoDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"upload rejected"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	err := c.Get(context.Background(), "/list_uploaded_files/", nil)
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "upload rejected", apiErr.Detail)
}

func TestDo_201IsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User created!"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	err := c.Post(context.Background(), "/create_contact", map[string]string{"firstName": "Jane"}, nil)
	assert.NoError(t, err)
}

func TestPostMultipart_SendsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "resume.pdf", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.7 fake", string(content))
		w.Write([]byte(`{"doc_id":"d1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	var out struct {
		DocID string `json:"doc_id"`
	}
	err := c.PostMultipart(context.Background(), "/upload/", "file", "resume.pdf",
		bytes.NewReader([]byte("%PDF-1.7 fake")), &out)
	require.NoError(t, err)
	assert.Equal(t, "d1", out.DocID)
}

func TestError_Message(t *testing.T) {
	e := &Error{Status: 404, Detail: "Document ID not found."}
	assert.Contains(t, e.Error(), "404")
	assert.Contains(t, e.Error(), "Document ID not found.")

	bare := &Error{Status: 502}
	assert.Contains(t, bare.Error(), "502")
}
