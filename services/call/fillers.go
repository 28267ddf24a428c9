package call

// Short natural utterances spoken while generation is still in flight. The
// poll attempt counter indexes into this list so consecutive fillers vary.
var fillerPhrases = []string{
	"One moment.",
	"Just a sec.",
	"Still checking.",
	"Almost there.",
}

func fillerFor(attempt int) string {
	if attempt < 0 {
		attempt = 0
	}
	return fillerPhrases[attempt%len(fillerPhrases)]
}
