package contacts

import (
	"context"
	"errors"
	"fmt"

	"lylebot/internal/api"

	"go.uber.org/zap"
)

// ErrEmptyPrompt is returned when email generation is invoked with an empty
// recipient query or purpose; the action aborts before any network call.
var ErrEmptyPrompt = errors.New("recipient and purpose are both required")

// Client talks to the contact service. The server is the sole source of
// truth: after every mutation the caller is expected to re-fetch the list
// rather than patch its local copy.
type Client struct {
	api    *api.Client
	logger *zap.Logger
}

// NewClient wraps an api.Client for the contact service endpoints.
func NewClient(c *api.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: c, logger: logger}
}

// List fetches the full, unpaginated contact collection.
func (c *Client) List(ctx context.Context) ([]Contact, error) {
	var out struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := c.api.Get(ctx, "/contacts", &out); err != nil {
		return nil, err
	}
	return out.Contacts, nil
}

// Save creates or updates a contact: POST when no id is present, PATCH by id
// otherwise. Validation is presence-only; the server owns everything else.
func (c *Client) Save(ctx context.Context, id int, f Fields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if id == 0 {
		return c.api.Post(ctx, "/create_contact", f, nil)
	}
	return c.api.Patch(ctx, fmt.Sprintf("/update_contact/%d", id), f, nil)
}

// Delete removes a contact by id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.Delete(ctx, fmt.Sprintf("/delete_contact/%d", id), nil)
}

// Logs fetches the operational log feed shown alongside the contact list.
func (c *Client) Logs(ctx context.Context) ([]string, error) {
	var out struct {
		Logs []string `json:"logs"`
	}
	if err := c.api.Get(ctx, "/logs", &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

// GenerateEmail asks the backend to draft an email for the contact matching
// query, about purpose. Both inputs must be non-empty or the call aborts
// without touching the network.
func (c *Client) GenerateEmail(ctx context.Context, query, purpose string) (*GeneratedEmail, error) {
	if query == "" || purpose == "" {
		return nil, ErrEmptyPrompt
	}

	in := struct {
		Query   string `json:"query"`
		Purpose string `json:"purpose"`
	}{Query: query, Purpose: purpose}

	var out GeneratedEmail
	if err := c.api.Post(ctx, "/generate_email", in, &out); err != nil {
		return nil, err
	}

	c.logger.Info("email generated",
		zap.String("contact", out.Contact.Email),
		zap.Int("length", len(out.Content)))
	return &out, nil
}
