package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// PatternSet holds the substring patterns that classify a message as
// noise. Skip covers media and deletion placeholders, System covers
// group event notices. Both are matched case-insensitively.
type PatternSet struct {
	Skip   []string `json:"skip"`
	System []string `json:"system"`
}

// DefaultPatterns returns the built-in noise patterns for standard
// WhatsApp exports.
func DefaultPatterns() PatternSet {
	return PatternSet{
		Skip: []string{
			"image omitted",
			"video omitted",
			"audio omitted",
			"sticker omitted",
			"document omitted",
			"Contact card omitted",
			"GIF omitted",
			"Messages and calls are end-to-end encrypted",
			"This message was deleted",
			"You deleted this message",
			"missed voice call",
			"missed video call",
			"<This message was edited>",
			"location:",
			"https://maps.google.com",
		},
		System: []string{
			"Video call",
			"Voice call",
			"Missed voice call",
			"Missed video call",
			"changed the subject",
			"changed this group",
			"added you",
			"removed you",
			"left the group",
			"created group",
			"changed the group",
			"security code changed",
		},
	}
}

// LoadPatterns reads a PatternSet from a JSON file, so the noise lists
// can be tuned without a rebuild.
func LoadPatterns(path string) (PatternSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PatternSet{}, fmt.Errorf("read patterns: %w", err)
	}
	var ps PatternSet
	if err := json.Unmarshal(data, &ps); err != nil {
		return PatternSet{}, fmt.Errorf("parse patterns: %w", err)
	}
	return ps, nil
}

// Classifier decides whether a message is substantive or noise.
type Classifier struct {
	patterns []string // lowercased skip + system patterns
}

// NewClassifier builds a classifier from a pattern set.
func NewClassifier(ps PatternSet) *Classifier {
	patterns := make([]string, 0, len(ps.Skip)+len(ps.System))
	for _, p := range append(append([]string{}, ps.Skip...), ps.System...) {
		patterns = append(patterns, strings.ToLower(p))
	}
	return &Classifier{patterns: patterns}
}

// IsNoise reports whether text is a media placeholder, a system notice,
// or trivial content not worth pairing.
func (c *Classifier) IsNoise(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range c.patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}

	clean := strings.TrimSpace(stripMarks(text))
	switch clean {
	case "", ".", "..", "...":
		return true
	}
	return false
}

// FilterNoise drops noise messages from a raw message sequence.
func (c *Classifier) FilterNoise(msgs []RawMessage) []RawMessage {
	kept := make([]RawMessage, 0, len(msgs))
	for _, m := range msgs {
		if c.IsNoise(m.Text) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
