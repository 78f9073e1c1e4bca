// Package types provides shared type definitions for the application.
package types

// TranslateRequest represents a translation request from the frontend.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

// DetectResult represents the result of language detection.
type DetectResult struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Stage  string `json:"stage"` // "script", "statistical", "llm" or "" when unsupported
	RTL    bool   `json:"rtl"`
	Reason string `json:"reason,omitempty"`
}

// Usage represents token usage statistics from LLM API calls.
type Usage struct {
	PromptTokens     int  `json:"promptTokens"`
	CompletionTokens int  `json:"completionTokens"`
	TotalTokens      int  `json:"totalTokens"`
	CacheHit         bool `json:"cacheHit"`
}

// TranslateResult represents the result of a translation request.
type TranslateResult struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	Usage      Usage  `json:"usage"`
}

// UIState is the snapshot of selections pushed to the frontend.
type UIState struct {
	SourceLang  string   `json:"sourceLang"`
	TargetLang  string   `json:"targetLang"`
	SourceRTL   bool     `json:"sourceRtl"`
	TargetRTL   bool     `json:"targetRtl"`
	Model       string   `json:"model"`
	Models      []string `json:"models"`
	Languages   []string `json:"languages"`
	Busy        bool     `json:"busy"`
	StatusModel string   `json:"statusModel"`
}

// SwapResult carries the texts after a swap so the frontend can refill both boxes.
type SwapResult struct {
	SourceText string  `json:"sourceText"`
	TargetText string  `json:"targetText"`
	State      UIState `json:"state"`
}
