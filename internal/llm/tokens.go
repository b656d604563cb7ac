package llm

// RoughEstimateTokens approximates the token count of English prose, which
// averages about four characters per token.
func RoughEstimateTokens(text string) int {
	avgCharsPerToken := 4.0
	tokens := int(float64(len([]rune(text))) / avgCharsPerToken)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
