package prompt

import "strings"

var labelPrefixes = []string{"Reply:", "Reply :", "Response:", "Message:"}

// CleanReply strips common LLM artifacts from a generated reply: a
// single matching pair of wrapping quotes and leading role labels.
func CleanReply(raw string) string {
	reply := strings.TrimSpace(raw)

	if len(reply) >= 2 {
		if (reply[0] == '"' && reply[len(reply)-1] == '"') ||
			(reply[0] == '\'' && reply[len(reply)-1] == '\'') {
			reply = reply[1 : len(reply)-1]
		}
	}

	for _, prefix := range labelPrefixes {
		if strings.HasPrefix(reply, prefix) {
			reply = strings.TrimSpace(reply[len(prefix):])
			break
		}
	}

	return strings.TrimSpace(reply)
}
