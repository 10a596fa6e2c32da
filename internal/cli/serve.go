package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doppelbot/doppel/internal/api"
	"github.com/doppelbot/doppel/internal/bot"
	"github.com/doppelbot/doppel/internal/config"
	"github.com/doppelbot/doppel/internal/embed"
	"github.com/doppelbot/doppel/internal/events"
	"github.com/doppelbot/doppel/internal/groq"
	"github.com/doppelbot/doppel/internal/prompt"
	"github.com/doppelbot/doppel/internal/rag"
	"github.com/doppelbot/doppel/internal/store"
)

func newServeCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reply server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			setupLogging(cfg.LogLevel)

			slog.Info("doppel starting", "port", cfg.Port)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			// Credentials are validated up front so the server never
			// accepts traffic it cannot answer.
			if cfg.GroqAPIKey == "" {
				return fmt.Errorf("GROQ_API_KEY is required")
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			db, err := store.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()
			slog.Info("database connected")

			llm := groq.NewClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqMaxTokens)
			slog.Info("groq client ready", "model", cfg.GroqModel)

			embedder := embed.NewClient(cfg.EmbedAPIURL, cfg.EmbedAPIKey, cfg.EmbedModel, cfg.EmbedDimension)
			retriever := rag.NewRetriever(embedder, db, slog.Default())
			if cfg.DisableRAG {
				slog.Warn("DISABLE_RAG is enabled — replies without style examples")
			}

			persona, err := prompt.LoadPersona(cfg.PersonaPath)
			if err != nil {
				return err
			}

			b := bot.New(db, retriever, llm, bot.Options{
				Persona:      persona,
				TopK:         cfg.RAGTopK,
				HistoryLimit: cfg.HistoryLimit,
				DisableRAG:   cfg.DisableRAG,
			}, slog.Default())

			// NATS bridge is optional — without it the HTTP API is the
			// only way in.
			if cfg.NatsURL != "" {
				nc, err := events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
				if err != nil {
					return fmt.Errorf("connect to NATS: %w", err)
				}
				defer nc.Close()
				slog.Info("NATS connected", "url", cfg.NatsURL)

				bridge := events.NewBridge(nc, b, slog.Default())
				if err := bridge.Start(); err != nil {
					return fmt.Errorf("start NATS bridge: %w", err)
				}
			} else {
				slog.Warn("NATS not configured — running HTTP only")
			}

			srv := api.NewServer(cfg.Port, b, db, cfg.GroqModel, slog.Default())
			go func() {
				if err := srv.Start(); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()

			slog.Info("doppel ready", "port", cfg.Port)

			<-ctx.Done()
			slog.Info("shutting down")
			return nil
		},
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
