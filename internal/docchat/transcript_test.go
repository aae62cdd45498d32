package docchat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSubmit_AppendsUserAndPendingTurn(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen := tr.Submit("Who is Lyle?")

	turns := tr.Turns()
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Text != "Who is Lyle?" {
		t.Errorf("user turn = %+v", turns[0])
	}
	if turns[1].Role != RoleBot || !turns[1].Pending || turns[1].Text != "" {
		t.Errorf("placeholder turn = %+v", turns[1])
	}
	if gen != 1 {
		t.Errorf("first generation = %d, want 1", gen)
	}
	if !tr.InFlight() {
		t.Error("transcript should report an in-flight turn")
	}
}

func TestFill_CompletesOwnTurn(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen := tr.Submit("Who is Lyle?")

	tr.Fill(gen, &Answer{
		Response: "Lyle is a software engineer.",
		Sources:  []Source{{DocID: "D1", Name: "resume.pdf"}},
	})

	turns := tr.Turns()
	bot := turns[1]
	if bot.Pending {
		t.Error("bot turn still pending after Fill")
	}
	if bot.Text != "Lyle is a software engineer." {
		t.Errorf("bot text = %q", bot.Text)
	}
	want := []Source{{DocID: "D1", Name: "resume.pdf"}}
	if diff := cmp.Diff(want, bot.Sources); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
	if tr.InFlight() {
		t.Error("nothing should be in flight after Fill")
	}
}

func TestFill_OutOfOrderArrivalsLandInOwnTurns(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen1 := tr.Submit("first")
	gen2 := tr.Submit("second")

	// Second answer arrives before the first.
	tr.Fill(gen2, &Answer{Response: "answer two"})
	tr.Fill(gen1, &Answer{Response: "answer one"})

	turns := tr.Turns()
	if turns[1].Text != "answer one" {
		t.Errorf("turn for gen1 holds %q", turns[1].Text)
	}
	if turns[3].Text != "answer two" {
		t.Errorf("turn for gen2 holds %q", turns[3].Text)
	}
}

func TestFail_SetsFixedErrorText(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen := tr.Submit("query")
	tr.Fail(gen)

	bot := tr.Turns()[1]
	if bot.Pending || bot.Text != ErrorReply {
		t.Errorf("failed turn = %+v", bot)
	}
}

func TestFail_LeavesViewerUntouched(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen1 := tr.Submit("first")
	tr.Fill(gen1, &Answer{Response: "ok", Sources: []Source{{DocID: "D1"}}})
	tr.SetViewer(gen1, Source{DocID: "D1", Name: "a.pdf"}, "https://bucket/a.pdf")

	gen2 := tr.Submit("second")
	tr.Fail(gen2)

	src, url, ok := tr.Viewer()
	if !ok || src.DocID != "D1" || url != "https://bucket/a.pdf" {
		t.Errorf("viewer changed on failure: %+v %q %v", src, url, ok)
	}
}

func TestSetViewer_DropsStaleGeneration(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen1 := tr.Submit("first")
	gen2 := tr.Submit("second")

	// gen2's chain resolves first and wins the viewer.
	if !tr.SetViewer(gen2, Source{DocID: "D2"}, "https://bucket/d2.pdf") {
		t.Fatal("current generation rejected")
	}

	// gen1's late resolution must not overwrite it.
	if tr.SetViewer(gen1, Source{DocID: "D1"}, "https://bucket/d1.pdf") {
		t.Fatal("stale generation accepted")
	}

	src, url, ok := tr.Viewer()
	if !ok || src.DocID != "D2" || url != "https://bucket/d2.pdf" {
		t.Errorf("viewer = %+v %q %v, want D2", src, url, ok)
	}
}

func TestSetViewer_ReplacesPreviousSource(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen1 := tr.Submit("first")
	tr.SetViewer(gen1, Source{DocID: "D1"}, "https://bucket/d1.pdf")

	gen2 := tr.Submit("second")
	tr.SetViewer(gen2, Source{DocID: "D2"}, "https://bucket/d2.pdf")

	src, _, _ := tr.Viewer()
	if src.DocID != "D2" {
		t.Errorf("viewer shows %s, want D2 (at most one source at a time)", src.DocID)
	}
}

func TestTurns_ReturnsCopy(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	tr.Submit("query")

	turns := tr.Turns()
	turns[0].Text = "mutated"

	if tr.Turns()[0].Text != "query" {
		t.Error("Turns exposed internal state")
	}
}

func TestFail_AfterFillCollapsesTurn(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen := tr.Submit("query")
	tr.Fill(gen, &Answer{
		Response: "the answer",
		Sources:  []Source{{DocID: "D1", Name: "resume.pdf"}},
	})

	// The source resolution phase fails after the answer already rendered.
	tr.Fail(gen)

	bot := tr.Turns()[1]
	if bot.Text != ErrorReply {
		t.Errorf("bot text = %q, want %q", bot.Text, ErrorReply)
	}
	if len(bot.Sources) != 0 {
		t.Errorf("collapsed turn kept sources: %+v", bot.Sources)
	}
}

func TestTurn_IgnoresUnknownGeneration(t *testing.T) {
	t.Parallel()

	tr := NewTranscript()
	gen := tr.Submit("query")
	tr.Fill(gen, &Answer{Response: "done"})

	// Double delivery and bogus generations must be no-ops.
	tr.Fill(gen, &Answer{Response: "again"})
	tr.Fail(99)

	want := []Turn{
		{Role: RoleUser, Text: "query"},
		{Role: RoleBot, Text: "done"},
	}
	got := tr.Turns()
	ignore := cmpopts.IgnoreFields(Turn{}, "ID", "Time", "Sources")
	if diff := cmp.Diff(want, got, ignore); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}
