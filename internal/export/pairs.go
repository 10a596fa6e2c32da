package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ExtractPairs walks the merged turn sequence and emits a pair for
// every non-owner turn immediately followed by an owner turn. Both
// sides are re-checked for noise on the merged text, and replies under
// two characters after trimming are dropped. Source order is kept and
// repeated triggers are not deduplicated.
func ExtractPairs(turns []Turn, c *Classifier) []Pair {
	var pairs []Pair

	for i := 0; i+1 < len(turns); i++ {
		trigger, reply := turns[i], turns[i+1]
		if trigger.IsOwner || !reply.IsOwner {
			continue
		}

		triggerText := strings.TrimSpace(trigger.Text)
		replyText := strings.TrimSpace(reply.Text)

		if c.IsNoise(triggerText) || c.IsNoise(replyText) {
			continue
		}
		// Counted in runes: a lone emoji or Devanagari character is
		// still a one-character reply.
		if utf8.RuneCountInString(replyText) < 2 {
			continue
		}

		pairs = append(pairs, Pair{
			Trigger:   triggerText,
			Reply:     replyText,
			Timestamp: trigger.Date + " " + trigger.Time,
		})
	}

	return pairs
}

// WritePairs serializes pairs as a pretty-printed UTF-8 JSON array,
// creating parent directories as needed.
func WritePairs(path string, pairs []Pair) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pairs); err != nil {
		return fmt.Errorf("encode pairs: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write pairs: %w", err)
	}
	return nil
}

// ReadPairs loads a pairs file written by WritePairs.
func ReadPairs(path string) ([]Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pairs: %w", err)
	}
	var pairs []Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse pairs: %w", err)
	}
	return pairs, nil
}

// Stats summarizes an extracted pair set.
type Stats struct {
	Total         int
	AvgTriggerLen float64
	AvgReplyLen   float64
}

// Summarize computes aggregate stats over pairs.
func Summarize(pairs []Pair) Stats {
	s := Stats{Total: len(pairs)}
	if len(pairs) == 0 {
		return s
	}
	var triggerLen, replyLen int
	for _, p := range pairs {
		triggerLen += len(p.Trigger)
		replyLen += len(p.Reply)
	}
	s.AvgTriggerLen = float64(triggerLen) / float64(len(pairs))
	s.AvgReplyLen = float64(replyLen) / float64(len(pairs))
	return s
}
