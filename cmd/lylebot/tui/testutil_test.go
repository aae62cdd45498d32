package tui

import (
	"time"

	"lylebot/cmd/lylebot/ui"
	"lylebot/internal/contacts"
	"lylebot/internal/corpus"
)

// NewTestModel builds a model with no live clients and a poll interval long
// enough that ticks never fire during a test.
func NewTestModel(opts ...func(*Model)) Model {
	m := New(Deps{
		Styles:    ui.NewStyles(ui.LightTheme()),
		PageSize:  10,
		PollEvery: time.Hour,
	})
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithPage starts the model on the given page.
func WithPage(p Page) func(*Model) {
	return func(m *Model) { m.page = p }
}

// WithContacts seeds the contact list snapshot.
func WithContacts(list []contacts.Contact) func(*Model) {
	return func(m *Model) { m.list = list }
}

// WithChatInput seeds the chat input field.
func WithChatInput(value string) func(*Model) {
	return func(m *Model) { m.chatInput.SetValue(value) }
}

// WithFiles seeds the corpus listing snapshot.
func WithFiles(files []corpus.File) func(*Model) {
	return func(m *Model) { m.files = files }
}

// WithContactsClient wires a live contact client, for tests that execute
// the returned commands.
func WithContactsClient(c *contacts.Client) func(*Model) {
	return func(m *Model) { m.contactsClient = c }
}

// WithCorpusClient wires a live corpus client.
func WithCorpusClient(c *corpus.Client) func(*Model) {
	return func(m *Model) { m.corpusClient = c }
}
