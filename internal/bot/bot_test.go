package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/doppelbot/doppel/internal/groq"
	"github.com/doppelbot/doppel/internal/store"
)

type fakeHistory struct {
	saved      []store.HistoryMessage
	recent     []store.HistoryMessage
	saveErr    error
	recentErr  error
	savedRoles []string
}

func (f *fakeHistory) SaveMessage(ctx context.Context, contactID, contactName, role, message string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, store.HistoryMessage{Role: role, Message: message})
	f.savedRoles = append(f.savedRoles, role)
	return nil
}

func (f *fakeHistory) RecentHistory(ctx context.Context, contactID string, limit int) ([]store.HistoryMessage, error) {
	return f.recent, f.recentErr
}

type fakeRetriever struct {
	examples []store.StyleExample
	called   bool
}

func (f *fakeRetriever) Retrieve(ctx context.Context, contactID, message string, topK int) []store.StyleExample {
	f.called = true
	return f.examples
}

type fakeLLM struct {
	reply    string
	err      error
	messages []groq.Message
}

func (f *fakeLLM) Complete(ctx context.Context, messages []groq.Message) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOpts() Options {
	return Options{Persona: "persona", TopK: 8, HistoryLimit: 10}
}

func TestReply_FullChain(t *testing.T) {
	history := &fakeHistory{}
	retriever := &fakeRetriever{examples: []store.StyleExample{{TriggerText: "t", ReplyText: "r"}}}
	llm := &fakeLLM{reply: `"hnn bhai sab badhiya"`}

	b := New(history, retriever, llm, testOpts(), discardLogger())

	reply, err := b.Reply(context.Background(), "harshit", "Harshit", "kya haal h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "hnn bhai sab badhiya" {
		t.Errorf("reply = %q, want cleaned text", reply.Text)
	}
	if reply.ExamplesUsed != 1 {
		t.Errorf("examples used = %d, want 1", reply.ExamplesUsed)
	}

	// Incoming and generated messages are both persisted.
	if len(history.savedRoles) != 2 || history.savedRoles[0] != "user" || history.savedRoles[1] != "assistant" {
		t.Errorf("saved roles = %v", history.savedRoles)
	}
	if history.saved[1].Message != "hnn bhai sab badhiya" {
		t.Errorf("persisted assistant reply = %q", history.saved[1].Message)
	}

	// The prompt ends with the incoming message.
	last := llm.messages[len(llm.messages)-1]
	if last.Role != "user" || last.Content != "kya haal h" {
		t.Errorf("final prompt segment = %+v", last)
	}
}

func TestReply_LLMFailurePropagates(t *testing.T) {
	b := New(&fakeHistory{}, &fakeRetriever{}, &fakeLLM{err: errors.New("rate limited")}, testOpts(), discardLogger())

	if _, err := b.Reply(context.Background(), "c", "C", "hi"); err == nil {
		t.Fatal("expected error when the LLM call fails")
	}
}

func TestReply_DegradedHistoryAndRetrieval(t *testing.T) {
	history := &fakeHistory{saveErr: errors.New("db down"), recentErr: errors.New("db down")}
	llm := &fakeLLM{reply: "thik h"}

	b := New(history, &fakeRetriever{}, llm, testOpts(), discardLogger())

	reply, err := b.Reply(context.Background(), "c", "C", "hi")
	if err != nil {
		t.Fatalf("reply must succeed without history/examples: %v", err)
	}
	if reply.Text != "thik h" || reply.ExamplesUsed != 0 {
		t.Errorf("unexpected reply: %+v", reply)
	}
	// Prompt degrades to persona + new message only.
	if len(llm.messages) != 2 {
		t.Errorf("expected 2 prompt segments, got %d", len(llm.messages))
	}
}

func TestReply_RAGDisabled(t *testing.T) {
	retriever := &fakeRetriever{examples: []store.StyleExample{{TriggerText: "t", ReplyText: "r"}}}
	llm := &fakeLLM{reply: "ok"}

	opts := testOpts()
	opts.DisableRAG = true
	b := New(&fakeHistory{}, retriever, llm, opts, discardLogger())

	reply, err := b.Reply(context.Background(), "c", "C", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retriever.called {
		t.Error("retriever must not be called when RAG is disabled")
	}
	if reply.ExamplesUsed != 0 {
		t.Errorf("examples used = %d, want 0", reply.ExamplesUsed)
	}
}
