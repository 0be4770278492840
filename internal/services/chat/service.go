package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopkeeper/internal/corpus"
	"shopkeeper/internal/modkit"
	"shopkeeper/internal/platform/logger"
	"shopkeeper/internal/platform/net"
	"shopkeeper/internal/platform/store/ch"
	"shopkeeper/internal/services/classify"
	"shopkeeper/internal/trend"
)

// Service runs the full ask flow. Safe for concurrent use
type Service struct {
	classifier Classifier
	retriever  Retriever
	gen        Generator
	emb        Embedder
	policy     *corpus.Index
	trends     TrendFetcher
	sink       AnswerSink // nil disables answer logging
	log        logger.Logger
	now        func() time.Time
}

// New constructs the chat service from the shared module deps
func New(
	d modkit.Deps,
	classifier Classifier,
	retriever Retriever,
	gen Generator,
	emb Embedder,
	policy *corpus.Index,
	trends TrendFetcher,
) *Service {
	s := &Service{
		classifier: classifier,
		retriever:  retriever,
		gen:        gen,
		emb:        emb,
		policy:     policy,
		trends:     trends,
		log:        d.Named("chat"),
		now:        time.Now,
	}
	if d.CH != nil {
		s.sink = d.CH
	}
	return s
}

// Ask classifies the question, dispatches to the matching answer path with
// the original tolerance rules, and logs the round trip
func (s *Service) Ask(ctx context.Context, in AskInput) (Reply, error) {
	started := s.now()
	claimed := classify.ParseCategory(in.Category)

	predicted, err := s.classifier.Classify(ctx, in.Message, in.Category)
	if err != nil {
		return Reply{}, err
	}

	answer, err := s.dispatch(ctx, in.Message, claimed, predicted)
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{
		AnswerID: uuid.NewString(),
		Category: string(predicted),
		Reply:    answer,
	}
	if s.sink != nil {
		// detached from request cancellation so a slow sink never holds the reply
		go s.logAnswer(context.WithoutCancel(ctx), in, reply, s.now().Sub(started))
	}
	return reply, nil
}

// dispatch applies the claimed-vs-predicted tolerance matrix: startup and
// trend are interchangeable, policy must match exactly
func (s *Service) dispatch(ctx context.Context, question string, claimed, predicted classify.Category) (string, error) {
	if predicted == classify.CategoryUnknown {
		return replyStudyHarder, nil
	}

	startupLike := predicted == classify.CategoryStartup || predicted == classify.CategoryTrend
	switch {
	case claimed == classify.CategoryStartup && startupLike:
		return s.answerStartup(ctx, question)
	case claimed == classify.CategoryPolicy && predicted == classify.CategoryPolicy:
		return s.answerPolicy(ctx, question)
	case claimed == classify.CategoryTrend && startupLike:
		return s.answerTrend(ctx, question)
	default:
		return replyMismatch, nil
	}
}

func (s *Service) answerStartup(ctx context.Context, question string) (string, error) {
	a, err := s.retriever.Assemble(ctx, question)
	if err != nil {
		return "", err
	}
	if len(a.Contexts) == 0 {
		return replyNoStartup, nil
	}
	return s.gen.Generate(ctx, startupMessages(question, a), startupTokenBudget, true)
}

func (s *Service) answerPolicy(ctx context.Context, question string) (string, error) {
	if s.policy.Len() == 0 {
		return replyNoPolicy, nil
	}
	qvec, err := s.emb.EmbedOne(ctx, question)
	if err != nil {
		return "", err
	}
	hits := s.policy.TopKMin(qvec, policyTopK, policySimFloor)
	if len(hits) == 0 {
		return replyNoPolicy, nil
	}
	contexts := make([]string, 0, len(hits))
	for _, r := range hits {
		contexts = append(contexts, r.Text)
	}
	return s.gen.Generate(ctx, policyMessages(question, contexts), policyTokenBudget, true)
}

func (s *Service) answerTrend(ctx context.Context, question string) (string, error) {
	keyword, err := s.extractKeyword(ctx, question)
	if err != nil {
		return "", err
	}

	points, err := s.trends.FetchSeries(ctx, keyword)
	if err != nil {
		s.log.Warn().Err(err).Str("keyword", keyword).Msg("trend fetch failed")
		return replyNoTrend, nil
	}
	line := trend.SeriesText(keyword, points)
	if line == "" {
		return replyNoTrend, nil
	}
	return s.gen.Generate(ctx, trendMessages(question, line), trendTokenBudget, true)
}

// extractKeyword asks the oracle for one representative keyword; when the
// reply is a comma list only the first entry counts
func (s *Service) extractKeyword(ctx context.Context, question string) (string, error) {
	resp, err := s.gen.Generate(ctx, keywordMessages(question), keywordTokenBudget, true)
	if err != nil {
		return "", err
	}
	keyword := resp
	if i := strings.Index(resp, ","); i >= 0 {
		keyword = resp[:i]
	}
	return strings.TrimSpace(keyword), nil
}

// logAnswer records the round trip for analytics; failures never reach the caller
func (s *Service) logAnswer(ctx context.Context, in AskInput, reply Reply, took time.Duration) {
	s.sink.Append(ctx, ch.AnswerRow{
		TS:        s.now().UTC(),
		AnswerID:  reply.AnswerID,
		RequestID: net.RequestID(ctx),
		Question:  in.Message,
		Category:  reply.Category,
		LatencyMs: took.Milliseconds(),
	})
}
