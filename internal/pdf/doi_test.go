package pdf

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain doi",
			text: "Nature 523, 297-302. 10.1038/nature14586 Published online",
			want: "10.1038/nature14586",
		},
		{
			name: "trailing punctuation trimmed",
			text: "available at 10.1038/nature14586. Accessed 2015",
			want: "10.1038/nature14586",
		},
		{
			name: "closing paren trimmed",
			text: "(see 10.1093/nar/gkq1088)",
			want: "10.1093/nar/gkq1088",
		},
		{
			name: "bare prefix with empty suffix skipped",
			text: "10.1038/ then 10.1021/ja01577a030",
			want: "10.1021/ja01577a030",
		},
		{
			name: "no doi",
			text: "just some body text with a number 10.5 in it",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDOIMissingFile(t *testing.T) {
	if _, err := ExtractDOI("/nonexistent/file.pdf"); err == nil {
		t.Error("expected error for a missing file")
	}
}
