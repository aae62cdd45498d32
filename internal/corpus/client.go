// Package corpus manages the uploaded document set feeding the chat
// assistant: multipart uploads with client-side PDF filtering, listing,
// deletion, and an inbox watcher that uploads PDFs dropped into a directory.
package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lylebot/internal/api"

	"go.uber.org/zap"
)

// File is an uploaded document as reported by the listing endpoint.
type File struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
}

// ErrNotPDF is returned when a candidate file fails the PDF check. The
// rejection happens before any network I/O.
var ErrNotPDF = errors.New("only PDF files are allowed")

// pdfMagic is the required file header. Extension alone is not trusted.
var pdfMagic = []byte("%PDF-")

// Client talks to the document service's corpus endpoints.
type Client struct {
	api    *api.Client
	logger *zap.Logger
}

// NewClient wraps an api.Client for the corpus endpoints.
func NewClient(c *api.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: c, logger: logger}
}

// Upload sends one file as a multipart POST and returns the server-assigned
// document id. Non-PDF content is rejected here, before the request is built.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "", ErrNotPDF
	}

	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if !bytes.HasPrefix(head[:n], pdfMagic) || n < len(pdfMagic) {
		return "", ErrNotPDF
	}

	var out struct {
		DocID string `json:"doc_id"`
	}
	body := io.MultiReader(bytes.NewReader(head[:n]), r)
	if err := c.api.PostMultipart(ctx, "/upload/", "file", filepath.Base(filename), body, &out); err != nil {
		return "", err
	}

	c.logger.Info("file uploaded",
		zap.String("filename", filepath.Base(filename)),
		zap.String("doc_id", out.DocID))
	return out.DocID, nil
}

// UploadPath uploads the file at path.
func (c *Client) UploadPath(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return c.Upload(ctx, filepath.Base(path), f)
}

// UploadAll uploads the given paths sequentially, one multipart POST per
// file, and returns the per-file results. A failure does not stop the batch.
func (c *Client) UploadAll(ctx context.Context, paths []string) []UploadResult {
	results := make([]UploadResult, 0, len(paths))
	for _, p := range paths {
		docID, err := c.UploadPath(ctx, p)
		results = append(results, UploadResult{Path: p, DocID: docID, Err: err})
	}
	return results
}

// UploadResult is the outcome of one file in a batch upload.
type UploadResult struct {
	Path  string
	DocID string
	Err   error
}

// List fetches the current corpus contents.
func (c *Client) List(ctx context.Context) ([]File, error) {
	var out struct {
		Files []File `json:"files"`
	}
	if err := c.api.Get(ctx, "/list_uploaded_files/", &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// Delete removes a document and its derived data by id.
func (c *Client) Delete(ctx context.Context, docID string) error {
	return c.api.Delete(ctx, "/delete/"+docID, nil)
}
