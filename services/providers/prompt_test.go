package providers

import "testing"

func TestFlattenMessages(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{
			name:     "empty conversation",
			messages: nil,
			want:     "",
		},
		{
			name: "single user message",
			messages: []Message{
				{Role: "user", Content: "hello"},
			},
			want: "User: hello",
		},
		{
			name: "full conversation keeps chronological order",
			messages: []Message{
				{Role: "system", Content: "You are helpful."},
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "hello"},
				{Role: "user", Content: "bye"},
			},
			want: "System: You are helpful.\n\nUser: hi\n\nAssistant: hello\n\nUser: bye",
		},
		{
			name: "unknown role falls back to user",
			messages: []Message{
				{Role: "tool", Content: "output"},
			},
			want: "User: output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenMessages(tt.messages)
			if got != tt.want {
				t.Errorf("FlattenMessages() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenMessagesDeterministic(t *testing.T) {
	messages := []Message{
		{Role: "system", Content: "a"},
		{Role: "user", Content: "b"},
		{Role: "assistant", Content: "c"},
	}

	first := FlattenMessages(messages)
	second := FlattenMessages(messages)

	if first != second {
		t.Errorf("flattening is not deterministic: %q != %q", first, second)
	}
}

func TestSplitSystem(t *testing.T) {
	messages := []Message{
		{Role: "system", Content: "one"},
		{Role: "user", Content: "question"},
		{Role: "system", Content: "two"},
		{Role: "assistant", Content: "answer"},
	}

	system, rest := SplitSystem(messages)

	if system != "one\ntwo" {
		t.Errorf("system = %q, want %q", system, "one\ntwo")
	}

	if len(rest) != 2 {
		t.Fatalf("rest has %d messages, want 2", len(rest))
	}
	if rest[0].Role != "user" || rest[1].Role != "assistant" {
		t.Errorf("rest order not preserved: %+v", rest)
	}
}

func TestSplitSystemNoSystemMessages(t *testing.T) {
	messages := []Message{
		{Role: "user", Content: "question"},
	}

	system, rest := SplitSystem(messages)

	if system != "" {
		t.Errorf("system = %q, want empty", system)
	}
	if len(rest) != 1 {
		t.Errorf("rest has %d messages, want 1", len(rest))
	}
}
