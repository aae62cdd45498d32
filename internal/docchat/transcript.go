package docchat

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two sides of the conversation.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ErrorReply is the fixed text a pending turn collapses to when its request
// fails at either phase of the fetch chain.
const ErrorReply = "Error fetching response."

// Turn is one entry in the transcript. User turns are immutable from
// creation; a bot turn is created pending and filled exactly once.
type Turn struct {
	ID      string
	Role    Role
	Text    string
	Pending bool
	Sources []Source
	Time    time.Time
}

// Transcript is the append-only conversation state. Each submission gets a
// generation number; the viewer only accepts source resolutions carrying the
// current generation, so a superseded turn's second-phase fetch can never
// overwrite a newer turn's viewer content.
type Transcript struct {
	turns []Turn
	gen   int
	// generations still awaiting their answer
	pending map[int]int
	// bot turn index per generation, kept past Fill so a failure in the
	// source-resolution phase still collapses its own turn
	botTurn map[int]int

	viewerSrc Source
	viewerURL string
	hasViewer bool
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		pending: make(map[int]int),
		botTurn: make(map[int]int),
	}
}

// Submit appends the user turn and its pending bot placeholder, and returns
// the generation number that tags this submission's fetch chain.
func (t *Transcript) Submit(query string) int {
	now := time.Now()
	t.gen++

	t.turns = append(t.turns,
		Turn{ID: uuid.NewString(), Role: RoleUser, Text: query, Time: now},
		Turn{ID: uuid.NewString(), Role: RoleBot, Pending: true, Time: now},
	)
	t.pending[t.gen] = len(t.turns) - 1
	t.botTurn[t.gen] = len(t.turns) - 1
	return t.gen
}

// Fill completes the bot turn belonging to gen with the answer. Each chain
// fills its own placeholder, so out-of-order arrivals land in the right turn.
func (t *Transcript) Fill(gen int, a *Answer) {
	idx, ok := t.pending[gen]
	if !ok {
		return
	}
	delete(t.pending, gen)

	t.turns[idx].Text = a.Response
	t.turns[idx].Sources = a.Sources
	t.turns[idx].Pending = false
}

// Fail collapses the bot turn belonging to gen to the fixed error text. The
// whole fetch chain shares one failure path: an error in the answer fetch or
// in the source resolution both land here, even after Fill already showed
// the answer. The viewer is left untouched; stale content from a prior turn
// may persist.
func (t *Transcript) Fail(gen int) {
	idx, ok := t.botTurn[gen]
	if !ok {
		return
	}
	delete(t.pending, gen)

	t.turns[idx].Text = ErrorReply
	t.turns[idx].Sources = nil
	t.turns[idx].Pending = false
}

// SetViewer installs the resolved source in the viewer region, replacing
// whatever was shown before. Resolutions from a superseded generation are
// dropped; returns whether the viewer changed.
func (t *Transcript) SetViewer(gen int, src Source, url string) bool {
	if gen != t.gen {
		return false
	}
	t.viewerSrc = src
	t.viewerURL = url
	t.hasViewer = true
	return true
}

// Viewer returns the currently displayed source and its download URL.
func (t *Transcript) Viewer() (Source, string, bool) {
	return t.viewerSrc, t.viewerURL, t.hasViewer
}

// Turns returns a copy of the transcript entries in order.
func (t *Transcript) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Generation returns the latest submission's generation number.
func (t *Transcript) Generation() int { return t.gen }

// InFlight reports whether any submission is still awaiting its answer.
func (t *Transcript) InFlight() bool { return len(t.pending) > 0 }
