package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doppelbot/doppel/internal/export"
)

func newConvertCommand() *cobra.Command {
	var (
		owner        string
		output       string
		preview      int
		patternsPath string
	)

	cmd := &cobra.Command{
		Use:   "convert <chat-export.txt>",
		Short: "Convert a WhatsApp .txt export into trigger→reply pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			if output == "" {
				output = strings.TrimSuffix(inputPath, ".txt") + ".json"
			}

			patterns := export.DefaultPatterns()
			if patternsPath != "" {
				var err error
				patterns, err = export.LoadPatterns(patternsPath)
				if err != nil {
					return err
				}
			}
			classifier := export.NewClassifier(patterns)

			cmd.Printf("Reading: %s\n", inputPath)
			raw, err := export.ParseFile(inputPath, owner)
			if err != nil {
				return err
			}
			cmd.Printf("  raw messages parsed:         %d\n", len(raw))

			filtered := classifier.FilterNoise(raw)
			cmd.Printf("  after filtering system/media: %d\n", len(filtered))

			merged := export.MergeConsecutive(filtered)
			cmd.Printf("  after merging consecutive:    %d\n", len(merged))

			pairs := export.ExtractPairs(merged, classifier)
			cmd.Printf("  trigger→reply pairs created:  %d\n", len(pairs))

			if len(pairs) == 0 {
				return fmt.Errorf("no trigger→reply pairs found — check that %q is your exact sender name in the export and that the file uses the standard WhatsApp export format", owner)
			}

			if err := export.WritePairs(output, pairs); err != nil {
				return err
			}
			cmd.Printf("\nSaved %d pairs to %s\n", len(pairs), output)

			if preview > 0 {
				printPreview(cmd, pairs, preview)
			}

			stats := export.Summarize(pairs)
			cmd.Printf("\nStats:\n")
			cmd.Printf("  total pairs:        %d\n", stats.Total)
			cmd.Printf("  avg trigger length: %.0f chars\n", stats.AvgTriggerLen)
			cmd.Printf("  avg reply length:   %.0f chars\n", stats.AvgReplyLen)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "~", "your name as it appears in the export ('~' for self-exports)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSON path (default: input with .json extension)")
	cmd.Flags().IntVar(&preview, "preview", 0, "print N sample pairs")
	cmd.Flags().StringVar(&patternsPath, "patterns", "", "JSON file with custom noise patterns")

	return cmd
}

func printPreview(cmd *cobra.Command, pairs []export.Pair, n int) {
	if n > len(pairs) {
		n = len(pairs)
	}
	cmd.Printf("\nPreview (first %d pairs):\n", n)
	for i, pair := range pairs[:n] {
		cmd.Printf("\n  [%d] They said:\n", i+1)
		for _, line := range strings.Split(pair.Trigger, "\n") {
			cmd.Printf("      > %s\n", line)
		}
		cmd.Printf("  [%d] You replied:\n", i+1)
		for _, line := range strings.Split(pair.Reply, "\n") {
			cmd.Printf("      < %s\n", line)
		}
	}
}
