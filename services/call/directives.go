package call

// Directive is one instruction for the telephony adapter to render into its
// channel markup. Every webhook turn resolves to a non-empty directive list.
type Directive interface {
	directive()
}

// Speak plays a synthesized utterance.
type Speak struct {
	Text string
}

// Listen collects the callee's next utterance and posts it to ActionURL.
// Say, when non-empty, is spoken before listening starts.
type Listen struct {
	Say            string
	ActionURL      string
	TimeoutSeconds int
}

// Pause waits silently.
type Pause struct {
	Seconds int
}

// Redirect re-enters the webhook loop at URL without collecting speech. Used
// for the filler-then-poll chain.
type Redirect struct {
	URL string
}

// Hangup ends the call, optionally after a final utterance.
type Hangup struct {
	Say string
}

func (Speak) directive()    {}
func (Listen) directive()   {}
func (Pause) directive()    {}
func (Redirect) directive() {}
func (Hangup) directive()   {}
