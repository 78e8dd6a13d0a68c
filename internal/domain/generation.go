package domain

import "time"

// GenerationOptions are the optional knobs of a text generation call.
type GenerationOptions struct {
	SystemPrompt       string
	ProviderPreference string
	Model              string
	Temperature        *float64
	MaxOutputTokens    int
	StageID            int64
}

type TextGeneration struct {
	Key     ConversationKey
	Prompt  string
	Options GenerationOptions
}

type TextResult struct {
	Run  Run
	Text string
}

type ImageGeneration struct {
	Key                ConversationKey
	Prompt             string
	ProviderPreference string
	Model              string
	Size               string
	StageID            int64
}

type ImageResult struct {
	Run         Run
	MimeType    string
	ImageBase64 string
	ImageURL    string
}

// RunKind distinguishes ledger entries.
type RunKind string

const (
	RunKindText  RunKind = "text"
	RunKindImage RunKind = "image"
)

// RunRecord is one ledger row.
type RunRecord struct {
	Run
	Kind       RunKind
	Key        ConversationKey
	RecordedAt time.Time
}

type RunTotals struct {
	Runs         int64
	CostUSD      float64
	InputTokens  int64
	OutputTokens int64
}
