// Package tui implements the interactive lylebot console: a contact manager
// page, a document chat page, and a corpus page, each backed by its REST
// client. The Update loop owns all state; network work happens in tea.Cmd
// goroutines and comes back as typed messages.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"lylebot/cmd/lylebot/ui"
	"lylebot/internal/contacts"
	"lylebot/internal/corpus"
	"lylebot/internal/docchat"
)

// Page identifies the active console page.
type Page int

const (
	PageContacts Page = iota
	PageChat
	PageCorpus
)

func (p Page) String() string {
	switch p {
	case PageContacts:
		return "Contacts"
	case PageChat:
		return "Chat"
	case PageCorpus:
		return "Corpus"
	default:
		return "Unknown"
	}
}

// sampleQuestion is the suggestion shown on an empty chat page. It is
// removed permanently once used.
const sampleQuestion = "Who is Lyle?"

// Deps carries the wired clients and settings into the model.
type Deps struct {
	Contacts  *contacts.Client
	Chat      *docchat.Client
	Corpus    *corpus.Client
	Styles    ui.Styles
	PageSize  int
	PollEvery time.Duration
	Logger    *zap.Logger
}

// Model is the console state. Value semantics per the bubbletea contract:
// Update returns the modified copy.
type Model struct {
	styles ui.Styles
	logger *zap.Logger

	contactsClient *contacts.Client
	chatClient     *docchat.Client
	corpusClient   *corpus.Client

	width  int
	height int
	page   Page

	spin    spinner.Model
	loading bool
	status  string
	err     error

	// Contacts page
	list        []contacts.Contact
	pager       contacts.Pager
	cursor      int // row within the current page slice
	form        contacts.Form
	formInputs  [3]textinput.Model // first, last, email
	formFocus   int
	emailOpen   bool
	emailInputs [2]textinput.Model // recipient query, purpose
	emailFocus  int
	email       *contacts.GeneratedEmail
	logs        []string
	pollEvery   time.Duration

	// Chat page
	transcript     *docchat.Transcript
	chatInput      textinput.Model
	suggestionUsed bool

	// Corpus page
	files       []corpus.File
	fileCursor  int
	uploadOpen  bool
	uploadInput textinput.Model

	// Pending delete awaiting its confirmation keypress.
	confirm *deleteTarget

	renderer *glamour.TermRenderer
}

// deleteTarget is a delete waiting for confirmation. Exactly one of
// contactID and docID is set.
type deleteTarget struct {
	contactID int
	docID     string
	name      string
}

// New builds the console model from its dependencies.
func New(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.PageSize < 1 {
		deps.PageSize = 10
	}
	if deps.PollEvery <= 0 {
		deps.PollEvery = 2 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Styles.Spinner

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask about the documents..."
	chatInput.CharLimit = 500
	chatInput.Focus()

	uploadInput := textinput.New()
	uploadInput.Placeholder = "path/to/file.pdf"

	m := Model{
		styles:         deps.Styles,
		logger:         deps.Logger,
		contactsClient: deps.Contacts,
		chatClient:     deps.Chat,
		corpusClient:   deps.Corpus,
		page:           PageContacts,
		spin:           sp,
		pager:          contacts.NewPager(deps.PageSize),
		pollEvery:      deps.PollEvery,
		transcript:     docchat.NewTranscript(),
		chatInput:      chatInput,
		uploadInput:    uploadInput,
	}

	labels := [3]string{"First name", "Last name", "Email"}
	for i := range m.formInputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 120
		m.formInputs[i] = in
	}

	emailLabels := [2]string{"Who is it for?", "What is it about?"}
	for i := range m.emailInputs {
		in := textinput.New()
		in.Placeholder = emailLabels[i]
		in.CharLimit = 300
		m.emailInputs[i] = in
	}

	return m
}

// Init loads all three pages' data and starts the log poll loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadContacts(),
		m.loadLogs(),
		m.loadFiles(),
		m.tickLogs(),
		m.spin.Tick,
		textinput.Blink,
	)
}

// pageSlice returns the contacts visible on the current page.
func (m Model) pageSlice() []contacts.Contact {
	return m.pager.Slice(m.list)
}

// selected returns the contact under the cursor, if any.
func (m Model) selected() (contacts.Contact, bool) {
	page := m.pageSlice()
	if m.cursor < 0 || m.cursor >= len(page) {
		return contacts.Contact{}, false
	}
	return page[m.cursor], true
}

// clampCursor keeps the cursor inside the current page after the list or
// page changes.
func (m *Model) clampCursor() {
	n := len(m.pageSlice())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// modalOpen reports whether any modal is capturing keys on the contacts or
// corpus page.
func (m Model) modalOpen() bool {
	return m.form.Active || m.emailOpen || m.uploadOpen || m.confirm != nil
}
