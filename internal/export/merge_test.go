package export

import "testing"

func TestMergeConsecutive_Bursts(t *testing.T) {
	msgs := []RawMessage{
		{Sender: "A", Text: "Hiii"},
		{Sender: "A", Text: "Sun"},
		{Sender: "A", Text: "Kha h"},
		{Sender: "B", Text: "ghar pe"},
	}

	merged := MergeConsecutive(msgs)
	if len(merged) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(merged))
	}
	if merged[0].Text != "Hiii\nSun\nKha h" {
		t.Errorf("merged[0].Text = %q", merged[0].Text)
	}
	if merged[1].Text != "ghar pe" {
		t.Errorf("merged[1].Text = %q", merged[1].Text)
	}
}

func TestMergeConsecutive_NoAdjacentSameSender(t *testing.T) {
	msgs := []RawMessage{
		{Sender: "A", Text: "1"},
		{Sender: "A", Text: "2"},
		{Sender: "B", Text: "3"},
		{Sender: "B", Text: "4"},
		{Sender: "A", Text: "5"},
	}

	merged := MergeConsecutive(msgs)
	for i := 1; i < len(merged); i++ {
		if merged[i].Sender == merged[i-1].Sender {
			t.Fatalf("adjacent turns share sender %q at %d", merged[i].Sender, i)
		}
	}
	if len(merged) != 3 {
		t.Errorf("expected 3 turns, got %d", len(merged))
	}
}

func TestMergeConsecutive_KeepsFirstTimestamp(t *testing.T) {
	msgs := []RawMessage{
		{Sender: "A", Text: "one", Date: "1/1/24", Time: "10:00"},
		{Sender: "A", Text: "two", Date: "1/1/24", Time: "10:01"},
	}

	merged := MergeConsecutive(msgs)
	if len(merged) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(merged))
	}
	if merged[0].Time != "10:00" {
		t.Errorf("merged turn should keep the opening message's time, got %q", merged[0].Time)
	}
}

func TestMergeConsecutive_Empty(t *testing.T) {
	if merged := MergeConsecutive(nil); len(merged) != 0 {
		t.Errorf("expected empty output, got %d turns", len(merged))
	}
}

func TestMergeConsecutive_Single(t *testing.T) {
	merged := MergeConsecutive([]RawMessage{{Sender: "A", Text: "hi"}})
	if len(merged) != 1 || merged[0].Text != "hi" {
		t.Errorf("unexpected result: %+v", merged)
	}
}
