package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/doppelbot/doppel/internal/bot"
)

// Replier generates a reply for an incoming message.
type Replier interface {
	Reply(ctx context.Context, contactID, contactName, message string) (bot.Reply, error)
}

// Bridge answers messages arriving over NATS, mirroring the HTTP reply
// endpoint for clients that prefer a queue over a request cycle.
// Failures are logged and dropped; the bridge never takes the process
// down.
type Bridge struct {
	client *Client
	bot    Replier
	logger *slog.Logger
}

func NewBridge(client *Client, b Replier, logger *slog.Logger) *Bridge {
	return &Bridge{client: client, bot: b, logger: logger}
}

// Start subscribes to the incoming-message subject.
func (b *Bridge) Start() error {
	return b.client.Subscribe(SubjectIncoming, b.handleIncoming)
}

func (b *Bridge) handleIncoming(subject string, data []byte) {
	ctx := context.Background()

	var msg IncomingMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		b.logger.Error("failed to parse incoming message event", "error", err)
		return
	}
	if msg.ContactID == "" || msg.Message == "" {
		b.logger.Warn("incoming message event missing contact_id or message")
		return
	}

	reply, err := b.bot.Reply(ctx, msg.ContactID, msg.ContactName, msg.Message)
	if err != nil {
		b.logger.Error("reply generation failed", "contact_id", msg.ContactID, "error", err)
		return
	}

	if err := b.client.Publish(SubjectReply, GeneratedReply{
		ContactID:       msg.ContactID,
		Reply:           reply.Text,
		RagExamplesUsed: reply.ExamplesUsed,
	}); err != nil {
		b.logger.Error("failed to publish reply event", "contact_id", msg.ContactID, "error", err)
	}
}
