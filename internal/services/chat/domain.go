// Package chat owns the /api/chat flow: classify the question, tolerate
// near-miss category claims, retrieve evidence and synthesize the answer
package chat

import (
	"context"

	"shopkeeper/internal/oracle"
	"shopkeeper/internal/platform/store/ch"
	"shopkeeper/internal/services/classify"
	"shopkeeper/internal/services/retrieval"
	"shopkeeper/internal/trend"
)

// answer synthesis budgets per category
const (
	startupTokenBudget = 712
	policyTokenBudget  = 512
	trendTokenBudget   = 500
	keywordTokenBudget = 50
)

// policy retrieval parameters
const (
	policyTopK     = 5
	policySimFloor = 0.25
)

// AskInput is the chat request body
type AskInput struct {
	Message  string `json:"message" validate:"required,min=1,max=2000"`
	Category string `json:"category" validate:"required,oneof=startup policy trend"`
}

// Reply is the chat response body
type Reply struct {
	AnswerID string `json:"answer_id"`
	Category string `json:"category"`
	Reply    string `json:"reply"`
}

// Classifier resolves the question category
type Classifier interface {
	Classify(ctx context.Context, question, claimed string) (classify.Category, error)
}

// Retriever assembles startup evidence
type Retriever interface {
	Assemble(ctx context.Context, question string) (retrieval.Assembly, error)
}

// Generator is the generation oracle port
type Generator interface {
	Generate(ctx context.Context, messages []oracle.Message, maxTokens int, deterministic bool) (string, error)
}

// Embedder vectorizes the question for the policy index
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// TrendFetcher pulls the monthly search-volume series for one keyword
type TrendFetcher interface {
	FetchSeries(ctx context.Context, keyword string) ([]trend.Point, error)
}

// AnswerSink records one chat round trip for analytics, off the request path
type AnswerSink interface {
	Append(ctx context.Context, row ch.AnswerRow)
}
