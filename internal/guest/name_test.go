package guest

import "testing"

func TestNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://twitter.com/naval", want: "Naval"},
		{url: "https://x.com/jane_doe", want: "Jane Doe"},
		{url: "https://www.linkedin.com/in/reid-hoffman/", want: "Reid Hoffman"},
		{url: "https://www.youtube.com/@lexfridman", want: "Lexfridman"},
		{url: "https://youtube.com/c/SomeChannel", want: "Somechannel"},
		{url: "seths.blog/about-seth", want: "About Seth"},
		{url: "https://example.com", want: "Unknown Person"},
		{url: "", want: "Unknown Person"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := NameFromURL(tt.url); got != tt.want {
				t.Fatalf("NameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("  Dr. Jane O'Neil "); got != "dr-jane-o-neil" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := Slug("!!!"); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}
