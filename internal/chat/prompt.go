package chat

import "strings"

type Section struct {
	Source  string
	Heading string
	Text    string
}

// PromptBuilder composes a system instruction: the persona instruction first,
// then zero or more context sections, each introduced by its heading.
type PromptBuilder struct {
	instruction string
	sections    []Section
}

func NewPromptBuilder(instruction string) *PromptBuilder {
	return &PromptBuilder{instruction: instruction}
}

func (b *PromptBuilder) AddSection(source, heading, text string) *PromptBuilder {
	b.sections = append(b.sections, Section{Source: source, Heading: heading, Text: text})
	return b
}

func (b *PromptBuilder) Sections() []Section {
	return b.sections
}

func (b *PromptBuilder) String() string {
	var sb strings.Builder
	sb.WriteString(b.instruction)
	for _, s := range b.sections {
		sb.WriteString("\n")
		sb.WriteString(s.Heading)
		sb.WriteString("\n")
		sb.WriteString(s.Text)
	}
	return sb.String()
}
