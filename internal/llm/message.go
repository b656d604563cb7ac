package llm

type MessageRole string

const (
	Assistant MessageRole = "assistant"
	User      MessageRole = "user"
	System    MessageRole = "system"
)

// Message is one entry of a completion request. The relay only ever sends a
// system instruction followed by a single user message; the terminal chat
// also uses it to carry replies back into the transcript.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}
