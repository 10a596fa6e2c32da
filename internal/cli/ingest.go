package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doppelbot/doppel/internal/config"
	"github.com/doppelbot/doppel/internal/embed"
	"github.com/doppelbot/doppel/internal/ingest"
	"github.com/doppelbot/doppel/internal/store"
)

func newIngestCommand(logger *slog.Logger) *cobra.Command {
	var (
		chatPath    string
		contactID   string
		allChats    string
		globalStyle bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Embed pairs files into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (chatPath == "") == (allChats == "") {
				return fmt.Errorf("use exactly one of --chat or --all-chats")
			}

			cfg := config.Load()
			ctx := cmd.Context()

			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			embedder := embed.NewClient(cfg.EmbedAPIURL, cfg.EmbedAPIKey, cfg.EmbedModel, cfg.EmbedDimension)
			g := ingest.New(embedder, db, logger)

			if chatPath != "" {
				if contactID == "" {
					contactID = strings.TrimSuffix(filepath.Base(chatPath), ".json")
					cmd.Printf("no --contact specified, using filename: %q\n", contactID)
				}
				n, err := g.File(ctx, chatPath, contactID)
				if err != nil {
					return err
				}
				cmd.Printf("ingested %d examples for %q\n", n, contactID)
				return nil
			}

			n, err := g.Dir(ctx, allChats, globalStyle)
			if err != nil {
				return err
			}
			cmd.Printf("ingested %d examples from %s\n", n, allChats)
			return nil
		},
	}

	cmd.Flags().StringVar(&chatPath, "chat", "", "single pairs file to ingest")
	cmd.Flags().StringVar(&contactID, "contact", "", "contact id for --chat (default: file stem)")
	cmd.Flags().StringVar(&allChats, "all-chats", "", "directory of pairs files to ingest")
	cmd.Flags().BoolVar(&globalStyle, "global-style", false, "also build the global fallback collection from a cross-contact sample")

	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show embedding and history statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			counts, err := db.CountByContact(ctx)
			if err != nil {
				return err
			}

			cmd.Println("Embedding statistics:")
			if len(counts) == 0 {
				cmd.Println("  (no data yet — run 'doppel ingest' first)")
			}
			total := 0
			for _, contactID := range sortedKeys(counts) {
				cmd.Printf("  %-20s %6d examples\n", contactID, counts[contactID])
				total += counts[contactID]
			}
			cmd.Printf("  total: %d embeddings across %d collections\n", total, len(counts))

			contacts, err := db.Contacts(ctx)
			if err != nil {
				return err
			}
			cmd.Println("\nConversation history:")
			if len(contacts) == 0 {
				cmd.Println("  (empty — fills as the bot operates)")
			}
			for _, c := range contacts {
				cmd.Printf("  %-20s %6d messages\n", c.ContactID, c.MessageCount)
			}
			return nil
		},
	}
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <contact-id>",
		Short: "Delete all stored embeddings for a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()

			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.ClearContact(ctx, args[0]); err != nil {
				return err
			}
			cmd.Printf("cleared all embeddings for contact %q\n", args[0])
			return nil
		},
	}
}

func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return store.New(ctx, cfg.DatabaseURL)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
