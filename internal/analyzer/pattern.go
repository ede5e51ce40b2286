package analyzer

import (
	"github.com/yildizm/go-promptfmt"
)

// ContentReviewPattern builds the prompt that asks a model whether QR
// content is safe and for a one-sentence suggestion about it
type ContentReviewPattern struct {
	promptfmt.BasePattern
	Content  string
	Language string // English language name, e.g. "Bengali"
}

// contentReviewResponse is the JSON shape the model is asked to return.
// IsSafe is a pointer so a missing field can be told apart from false.
type contentReviewResponse struct {
	Suggestion string `json:"suggestion"`
	IsSafe     *bool  `json:"isSafe"`
}

// ContentReview returns a pattern with Bengali output
func ContentReview() *ContentReviewPattern {
	return &ContentReviewPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Classifies QR code content as a safe link or text and summarizes it",
			Tags:        []string{"qr-code", "content-safety", "summary"},
		},
		Language: "Bengali",
	}
}

func (p *ContentReviewPattern) WithContent(content string) *ContentReviewPattern {
	p.Content = content
	return p
}

func (p *ContentReviewPattern) WithLanguage(language string) *ContentReviewPattern {
	if language != "" {
		p.Language = language
	}
	return p
}

func (p *ContentReviewPattern) Build() *promptfmt.Prompt {
	return promptfmt.New().
		System("You review the content of QR codes before they are printed or shared. Flag phishing, malware and deceptive links as unsafe.").
		User("Analyze this content for a QR code: %q. Is it a safe link or text? Give a short 1-sentence suggestion or summary in %s. "+
			`Return JSON format: { "suggestion": "string", "isSafe": boolean }`,
			p.Content, p.Language).
		ExpectJSON(&contentReviewResponse{}).
		Build()
}
