package content

import (
	"strings"
	"testing"
)

func TestCleanBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "empty body",
			body: "",
			want: "",
		},
		{
			name: "clean body passes through",
			body: "# A Title\n\nFirst paragraph.\n\nSecond paragraph.",
			want: "# A Title\n\nFirst paragraph.\n\nSecond paragraph.",
		},
		{
			name: "drops template boilerplate lines",
			body: "Weekly blog preview/summary you can use on your main blog page:\n\n# A Title\n\nBody.",
			want: "# A Title\n\nBody.",
		},
		{
			name: "drops date stamps",
			body: "# A Title\n\n**Date: January 6, 2025**\n\nBody.",
			want: "# A Title\n\nBody.",
		},
		{
			name: "drops short teaser fragments",
			body: "# A Title\n\nA short teaser sentence. Read more...\n\nBody.",
			want: "# A Title\n\nBody.",
		},
		{
			name: "drops preamble before the heading",
			body: "Here is your rewritten article as requested.\n\n# A Title\n\nBody.",
			want: "# A Title\n\nBody.",
		},
		{
			name: "promotes an unmarked title line",
			body: "Understanding Trusts for Young Families\n\nBody paragraph.",
			want: "# Understanding Trusts for Young Families\n\nBody paragraph.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanBody(tt.body)
			if got != tt.want {
				t.Errorf("CleanBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanBodyKeepsLongMarkerParagraph(t *testing.T) {
	long := "# Title\n\n" + strings.Repeat("This paragraph talks about why readers click Read more... links. ", 5)
	got := CleanBody(long)
	if !strings.Contains(got, "Read more...") {
		t.Errorf("long body paragraph mentioning the marker must be kept:\n%s", got)
	}
}
