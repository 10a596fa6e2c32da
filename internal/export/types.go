package export

// RawMessage is a single message reconstructed from a WhatsApp export:
// one header line plus any soft-wrapped continuation lines.
type RawMessage struct {
	Sender  string
	Text    string
	Date    string
	Time    string
	IsOwner bool
}

// Turn is a RawMessage after consecutive same-sender messages have been
// merged. Adjacent turns never share a sender.
type Turn = RawMessage

// Pair is one (they said → you replied) example, the unit stored for
// style retrieval.
type Pair struct {
	Trigger   string `json:"trigger"`
	Reply     string `json:"reply"`
	Timestamp string `json:"timestamp"`
}
