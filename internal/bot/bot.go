package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doppelbot/doppel/internal/groq"
	"github.com/doppelbot/doppel/internal/prompt"
	"github.com/doppelbot/doppel/internal/store"
)

// HistoryStore persists and reads the per-contact conversation log.
type HistoryStore interface {
	SaveMessage(ctx context.Context, contactID, contactName, role, message string) error
	RecentHistory(ctx context.Context, contactID string, limit int) ([]store.HistoryMessage, error)
}

// Retriever returns style examples for an incoming message, best-effort.
type Retriever interface {
	Retrieve(ctx context.Context, contactID, message string, topK int) []store.StyleExample
}

// Completer generates the reply text from the assembled prompt.
type Completer interface {
	Complete(ctx context.Context, messages []groq.Message) (string, error)
}

// Options carries the per-request knobs.
type Options struct {
	Persona      string
	TopK         int
	HistoryLimit int
	DisableRAG   bool
}

// Reply is the generated outcome for one incoming message.
type Reply struct {
	Text         string
	ExamplesUsed int
}

// Bot runs the full reply chain: history, retrieval, prompt, LLM,
// post-processing, persistence. History and retrieval failures degrade;
// only the LLM call is fatal to a request.
type Bot struct {
	history   HistoryStore
	retriever Retriever
	llm       Completer
	opts      Options
	logger    *slog.Logger
}

func New(history HistoryStore, retriever Retriever, llm Completer, opts Options, logger *slog.Logger) *Bot {
	return &Bot{
		history:   history,
		retriever: retriever,
		llm:       llm,
		opts:      opts,
		logger:    logger,
	}
}

// Reply generates a styled reply to message from contactID.
func (b *Bot) Reply(ctx context.Context, contactID, contactName, message string) (Reply, error) {
	// The incoming message is saved before the history fetch, so the
	// fetched history already contains it and prompt.Build appends it
	// again as the final user turn. Deliberate: the prompt sees the
	// message in both places, and history stays complete even when the
	// LLM call below fails.
	if err := b.history.SaveMessage(ctx, contactID, contactName, "user", message); err != nil {
		b.logger.Error("history save failed", "contact_id", contactID, "error", err)
	}

	history, err := b.history.RecentHistory(ctx, contactID, b.opts.HistoryLimit)
	if err != nil {
		b.logger.Error("history fetch failed", "contact_id", contactID, "error", err)
		history = nil
	}

	var examples []store.StyleExample
	if !b.opts.DisableRAG {
		examples = b.retriever.Retrieve(ctx, contactID, message, b.opts.TopK)
	}

	messages := prompt.Build(b.opts.Persona, examples, history, message)

	raw, err := b.llm.Complete(ctx, messages)
	if err != nil {
		return Reply{}, fmt.Errorf("llm call: %w", err)
	}
	reply := prompt.CleanReply(raw)

	if err := b.history.SaveMessage(ctx, contactID, contactName, "assistant", reply); err != nil {
		b.logger.Error("history save failed", "contact_id", contactID, "error", err)
	}

	return Reply{Text: reply, ExamplesUsed: len(examples)}, nil
}
