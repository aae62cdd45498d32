package tui

import (
	"time"

	"lylebot/internal/contacts"
	"lylebot/internal/corpus"
	"lylebot/internal/docchat"
)

// Messages produced by tea.Cmd goroutines. Every network round trip comes
// back as exactly one of these.

// contactsMsg carries a fresh contact list snapshot.
type contactsMsg struct {
	list []contacts.Contact
	err  error
}

// mutationDoneMsg reports a create/update/delete result. Success triggers a
// re-fetch; the local list is never patched in place.
type mutationDoneMsg struct {
	action string // "create", "update", "delete"
	err    error
}

// logsMsg carries the activity log feed.
type logsMsg struct {
	lines []string
	err   error
}

// logTickMsg schedules the next activity log poll.
type logTickMsg time.Time

// emailMsg carries a generated email draft.
type emailMsg struct {
	result *contacts.GeneratedEmail
	err    error
}

// answerMsg carries the chat answer for one submission. The generation tag
// routes it to its own transcript turn.
type answerMsg struct {
	gen    int
	answer *docchat.Answer
	err    error
}

// sourceMsg carries a resolved download URL for the answer's first source.
// Stale generations are dropped by the transcript.
type sourceMsg struct {
	gen    int
	source docchat.Source
	url    string
	err    error
}

// filesMsg carries a fresh corpus listing.
type filesMsg struct {
	files []corpus.File
	err   error
}

// fileOpMsg reports an upload or delete result. Success triggers a
// re-fetch of the listing.
type fileOpMsg struct {
	action string // "upload", "delete"
	name   string
	err    error
}
