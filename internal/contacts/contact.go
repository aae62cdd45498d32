// Package contacts implements the contact manager's client side: the CRUD
// client against the contact service, required-field validation, the pure
// pagination view, and the single-open form policy.
package contacts

import "errors"

// Contact is a contact record. The id is server-assigned; the client never
// generates ids.
type Contact struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Fields is the writable portion of a contact.
type Fields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ErrMissingFields is returned when a required field is empty. Validation at
// the form boundary is presence-only; everything else is the server's call.
var ErrMissingFields = errors.New("first name, last name, and email are required")

// Validate checks required-field presence.
func (f Fields) Validate() error {
	if f.FirstName == "" || f.LastName == "" || f.Email == "" {
		return ErrMissingFields
	}
	return nil
}

// GeneratedEmail is the result of the AI email generation action: the
// resolved target contact and the generated subject/body text.
type GeneratedEmail struct {
	Contact Contact `json:"contact"`
	Content string  `json:"emailContent"`
}

// Form is the create/edit form state. At most one form is open at a time;
// opening while one is already open is a rejected no-op.
type Form struct {
	Active bool
	ID     int // zero for create
	Fields Fields
}

// OpenCreate opens an empty create form. Returns false if a form is already
// open.
func (f *Form) OpenCreate() bool {
	if f.Active {
		return false
	}
	*f = Form{Active: true}
	return true
}

// OpenEdit opens an edit form pre-filled from the contact. Returns false if
// a form is already open.
func (f *Form) OpenEdit(c Contact) bool {
	if f.Active {
		return false
	}
	*f = Form{
		Active: true,
		ID:     c.ID,
		Fields: Fields{FirstName: c.FirstName, LastName: c.LastName, Email: c.Email},
	}
	return true
}

// Close discards the form state.
func (f *Form) Close() {
	*f = Form{}
}

// IsEdit reports whether the form targets an existing contact.
func (f *Form) IsEdit() bool {
	return f.ID != 0
}
