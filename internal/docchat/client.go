// Package docchat implements the document-chat client side: the REST client
// for the document service's chat, download-resolution, and outreach-email
// endpoints, and the transcript state machine that keeps superseded source
// resolutions from clobbering newer turns.
package docchat

import (
	"context"
	"fmt"

	"lylebot/internal/api"

	"go.uber.org/zap"
)

// Source identifies an uploaded document cited by an answer.
type Source struct {
	DocID string `json:"doc_id"`
	Name  string `json:"name"`
}

// Answer is a grounded chat response with its supporting sources.
type Answer struct {
	Response  string   `json:"response"`
	SessionID string   `json:"session_id"`
	Sources   []Source `json:"sources"`
}

// OutreachStatus is the send-email result.
type OutreachStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client talks to the document service.
type Client struct {
	api    *api.Client
	logger *zap.Logger
}

// NewClient wraps an api.Client for the document service endpoints.
func NewClient(c *api.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: c, logger: logger}
}

// Ask sends a query and returns the grounded answer with cited sources.
func (c *Client) Ask(ctx context.Context, query string) (*Answer, error) {
	in := struct {
		Query string `json:"query"`
	}{Query: query}

	var out Answer
	if err := c.api.Post(ctx, "/chat/", in, &out); err != nil {
		return nil, err
	}

	c.logger.Debug("answer received",
		zap.String("session_id", out.SessionID),
		zap.Int("sources", len(out.Sources)))
	return &out, nil
}

// ResolveDownload exchanges a document id for a short-lived download URL.
// The URL is never cached; each citation resolves it fresh.
func (c *Client) ResolveDownload(ctx context.Context, docID string) (string, error) {
	var out struct {
		DownloadURL string `json:"download_url"`
	}
	if err := c.api.Get(ctx, "/download/"+docID, &out); err != nil {
		return "", err
	}
	return out.DownloadURL, nil
}

// GenerateOutreach drafts an outreach email for the given company and job
// description.
func (c *Client) GenerateOutreach(ctx context.Context, company, jobDescription string) (string, error) {
	in := struct {
		CompanyName    string `json:"companyName"`
		JobDescription string `json:"jobDescription"`
	}{CompanyName: company, JobDescription: jobDescription}

	var out struct {
		EmailContent string `json:"emailContent"`
	}
	if err := c.api.Post(ctx, "/generate_email/", in, &out); err != nil {
		return "", err
	}
	return out.EmailContent, nil
}

// SendOutreach generates and sends the outreach email server-side. A 2xx
// response with a non-success status is reported as an error; the backend
// uses the payload, not the status code, to signal send failure.
func (c *Client) SendOutreach(ctx context.Context, company, jobDescription string) (*OutreachStatus, error) {
	in := struct {
		CompanyName    string `json:"companyName"`
		JobDescription string `json:"jobDescription"`
	}{CompanyName: company, JobDescription: jobDescription}

	var out OutreachStatus
	if err := c.api.Post(ctx, "/send_email/", in, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return &out, fmt.Errorf("send failed: %s", out.Message)
	}
	return &out, nil
}
