package call

import "testing"

func TestExtractQuestion(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text string
		want string
	}{
		{"Do you have it in stock?", "Do you have it in stock?"},
		{"Thanks for that. And what's the price?", "And what's the price?"},
		{"No worries, take your time.", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := extractQuestion(c.text); got != c.want {
			t.Errorf("extractQuestion(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestIsSameQuestion(t *testing.T) {
	t.Parallel()
	cases := []struct {
		q1, q2 string
		want   bool
	}{
		{"Do you have it in stock?", "Do you have it in stock?", true},
		{"Do you have it in stock?", "do you have it in stock", true},
		{"Do you have the item in stock?", "Do you have the item in stock today?", true},
		{"Do you have it in stock?", "What time do you close?", false},
		{"", "Do you have it?", false},
	}
	for _, c := range cases {
		if got := isSameQuestion(c.q1, c.q2); got != c.want {
			t.Errorf("isSameQuestion(%q, %q) = %v, want %v", c.q1, c.q2, got, c.want)
		}
	}
}
