package enrich

import "testing"

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced json",
			in:   "```json\n{\"title\": \"Rosa Negra\"}\n```",
			want: `{"title": "Rosa Negra"}`,
		},
		{
			name: "no fences",
			in:   `{"title": "Rosa Negra"}`,
			want: `{"title": "Rosa Negra"}`,
		},
		{
			name: "trailing newline after close fence",
			in:   "```json\n[1, 2, 3]\n```\n",
			want: "[1, 2, 3]",
		},
		{
			name: "whitespace only",
			in:   "  \n\t ",
			want: "",
		},
		{
			name: "leading prose before fence",
			in:   "Here is the data:\n```json\n{\"a\": 1}\n```",
			want: "Here is the data:\n\n{\"a\": 1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
