package domain

// Prompt is the pair of messages sent to the generation provider.
type Prompt struct {
	System string
	User   string
}

// TokenUsage mirrors the usage block reported by the provider.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is a successful provider response.
type Completion struct {
	Content string
	Model   string
	Usage   TokenUsage
}
