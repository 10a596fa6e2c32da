package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// headerPattern matches a WhatsApp message header line:
//
//	[DD/MM/YY, HH:MM:SS AM/PM] Sender: Message
//
// Brackets, the comma, seconds and the meridiem are all optional, which
// covers both 12h and 24h exports across locales.
var headerPattern = regexp.MustCompile(
	`^\[?(\d{1,2}/\d{1,2}/\d{2,4}),?\s+(\d{1,2}:\d{2}(?::\d{2})?(?:\s*[APap][Mm])?)\]?\s+(.+?):\s(.+)$`,
)

var editedMarker = regexp.MustCompile(`\s*<This message was edited>`)

const (
	ltrMark = "‎"
	rtlMark = "‏"
)

// ParseFile reads a WhatsApp .txt export and returns the raw message
// sequence. ownerName is matched exactly against the sender field to
// mark the owner's messages.
func ParseFile(path, ownerName string) ([]RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return Parse(f, ownerName)
}

// Parse reads export lines from r. A line matching the header pattern
// starts a new message; any other non-blank line is appended to the
// previous message. Lines before the first header are dropped. The
// parser never fails on malformed content — real exports are noisy.
//
// Known limitation: a header-like line inside a message body is
// indistinguishable from a real new message and is accepted as one.
func Parse(r io.Reader, ownerName string) ([]RawMessage, error) {
	var messages []RawMessage
	var current *RawMessage

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// WhatsApp sprinkles direction marks around media and names.
		line = stripMarks(line)

		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			// Continuation of the previous message (multi-line).
			if current != nil {
				current.Text += "\n" + line
			}
			continue
		}

		if current != nil {
			messages = append(messages, *current)
		}

		sender := strings.TrimSpace(m[3])
		text := strings.TrimSpace(editedMarker.ReplaceAllString(m[4], ""))

		current = &RawMessage{
			Sender:  sender,
			Text:    text,
			Date:    m[1],
			Time:    m[2],
			IsOwner: sender == ownerName,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if current != nil {
		messages = append(messages, *current)
	}

	return messages, nil
}

func stripMarks(s string) string {
	s = strings.ReplaceAll(s, ltrMark, "")
	return strings.ReplaceAll(s, rtlMark, "")
}
