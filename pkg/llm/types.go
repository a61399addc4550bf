package llm

// Keyword is a ranked ATS keyword extracted from a job description.
type Keyword struct {
	Term string `json:"term"`
	Rank int    `json:"rank"`
}

// keywordsResponse is the JSON contract for keyword extraction.
type keywordsResponse struct {
	KeywordsRanked []Keyword `json:"keywords_ranked"`
}

// TailorRequest carries everything the model needs to rewrite a resume's
// structured text for one job posting.
type TailorRequest struct {
	JobTitle          string
	CompanyName       string
	JobDescription    string
	Keywords          []Keyword
	MasterText        string
	ExtraInstructions string
}

// CoverLetterRequest carries the inputs for cover letter generation.
type CoverLetterRequest struct {
	Name           string
	CompanyName    string
	JobTitle       string
	JobDescription string
	Keywords       []Keyword
	ResumeText     string
}

// ClaudeRequest represents the Claude API request format.
type ClaudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// ClaudeResponse represents the Claude API response format.
type ClaudeResponse struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Role    string    `json:"role"`
	Content []Content `json:"content"`
	Model   string    `json:"model"`
	Usage   Usage     `json:"usage"`
}

// Message represents a message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Content represents content in the response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage represents token usage information.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
