package export

// MergeConsecutive collapses runs of messages from the same sender into
// single turns. People send bursts of short messages as one thought;
// the burst is joined with newlines so pairing sees the whole thing.
func MergeConsecutive(msgs []RawMessage) []Turn {
	if len(msgs) == 0 {
		return nil
	}

	var merged []Turn
	current := msgs[0]

	for _, m := range msgs[1:] {
		if m.Sender == current.Sender {
			current.Text += "\n" + m.Text
			continue
		}
		merged = append(merged, current)
		current = m
	}
	merged = append(merged, current)

	return merged
}
