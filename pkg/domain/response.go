package domain

// EmptyReplyPlaceholder is shown when the model returned no text at all.
const EmptyReplyPlaceholder = "Empty response from model."

type ReplyOutcome int

const (
	ReplyEmpty ReplyOutcome = iota
	ReplyStructured
	ReplyPlain
)

func (o ReplyOutcome) String() string {
	switch o {
	case ReplyEmpty:
		return "empty"
	case ReplyStructured:
		return "structured"
	case ReplyPlain:
		return "plain"
	}
	return "unknown"
}

// Reply is a raw model reply split into its reasoning and answer sections.
type Reply struct {
	Outcome  ReplyOutcome
	Content  string
	Thinking string
	Final    string
}
