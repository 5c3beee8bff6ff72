package notify

import (
	"reflect"
	"testing"
)

func TestExtractUsernames(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"none", "no mentions here", nil},
		{"empty", "", nil},
		{"uppercase start excluded, duplicates collapsed",
			"hello @Bob and @alice_2 and @alice_2", []string{"@alice_2"}},
		{"first-seen order", "@zed then @abc then @zed", []string{"@zed", "@abc"}},
		{"dash and underscore", "ping @a-b_c9", []string{"@a-b_c9"}},
		{"digit start", "cc @9lives", []string{"@9lives"}},
		{"bare at ignored", "a @ b", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractUsernames(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("extractUsernames(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMentionLine(t *testing.T) {
	if got := mentionLine("hi @bob, also @ann"); got != "To: @bob, @ann" {
		t.Fatalf("mentionLine = %q", got)
	}
	if got := mentionLine("nobody"); got != "" {
		t.Fatalf("expected empty line, got %q", got)
	}
}
