package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"shopkeeper/internal/corpus"
	"shopkeeper/internal/modkit"
	"shopkeeper/internal/oracle"
	"shopkeeper/internal/platform/store/ch"
	"shopkeeper/internal/services/classify"
	"shopkeeper/internal/services/retrieval"
	"shopkeeper/internal/trend"
)

type fakeClassifier struct {
	cat classify.Category
	err error
}

func (f fakeClassifier) Classify(context.Context, string, string) (classify.Category, error) {
	return f.cat, f.err
}

type fakeRetriever struct {
	a   retrieval.Assembly
	err error
}

func (f fakeRetriever) Assemble(context.Context, string) (retrieval.Assembly, error) {
	return f.a, f.err
}

type genCall struct {
	maxTokens     int
	deterministic bool
	user          string
}

type fakeGen struct {
	resp  string
	err   error
	calls []genCall
}

func (f *fakeGen) Generate(_ context.Context, msgs []oracle.Message, maxTokens int, deterministic bool) (string, error) {
	user := ""
	if len(msgs) > 0 {
		user = msgs[len(msgs)-1].Content
	}
	f.calls = append(f.calls, genCall{maxTokens: maxTokens, deterministic: deterministic, user: user})
	return f.resp, f.err
}

type fakeEmb struct{ vec []float32 }

func (f fakeEmb) EmbedOne(context.Context, string) ([]float32, error) { return f.vec, nil }

type fakeTrends struct {
	points []trend.Point
	err    error
}

func (f fakeTrends) FetchSeries(context.Context, string) ([]trend.Point, error) {
	return f.points, f.err
}

func policyIndex(texts []string, vecs [][]float32) *corpus.Index {
	recs := make([]corpus.Record, 0, len(texts))
	for _, tx := range texts {
		recs = append(recs, corpus.NewPolicy(tx))
	}
	return corpus.NewIndex(recs, vecs)
}

func newService(cls Classifier, ret Retriever, gen Generator, emb Embedder, policy *corpus.Index, trends TrendFetcher) *Service {
	return New(modkit.Deps{Log: zerolog.Nop()}, cls, ret, gen, emb, policy, trends)
}

// blockingSink holds Append until released so tests can observe that the
// request path does not wait on it
type blockingSink struct {
	release chan struct{}
	rows    chan ch.AnswerRow
}

func (b *blockingSink) Append(_ context.Context, row ch.AnswerRow) {
	<-b.release
	b.rows <- row
}

func TestAskUnknownGetsCannedReply(t *testing.T) {
	gen := &fakeGen{}
	s := newService(fakeClassifier{cat: classify.CategoryUnknown}, fakeRetriever{}, gen, fakeEmb{}, corpus.Empty(), fakeTrends{})

	reply, err := s.Ask(context.Background(), AskInput{Message: "서울 날씨", Category: "startup"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Reply != replyStudyHarder {
		t.Fatalf("reply = %q, want canned study-harder text", reply.Reply)
	}
	if reply.AnswerID == "" {
		t.Fatalf("answer id missing")
	}
	if len(gen.calls) != 0 {
		t.Fatalf("generation oracle called %d times for unknown", len(gen.calls))
	}
}

func TestAskToleranceMatrix(t *testing.T) {
	assembly := retrieval.Assembly{Contexts: []string{"[통계] 2024 카페 창업률 8%"}, Sector: "카페"}

	tests := []struct {
		name      string
		claimed   string
		predicted classify.Category
		wantGen   bool
		wantReply string
	}{
		{name: "startup claimed, startup predicted", claimed: "startup", predicted: classify.CategoryStartup, wantGen: true},
		{name: "startup claimed, trend predicted", claimed: "startup", predicted: classify.CategoryTrend, wantGen: true},
		{name: "policy claimed, policy predicted answers", claimed: "policy", predicted: classify.CategoryPolicy, wantGen: true},
		{name: "policy claimed, startup predicted mismatches", claimed: "policy", predicted: classify.CategoryStartup, wantReply: replyMismatch},
		{name: "startup claimed, policy predicted mismatches", claimed: "startup", predicted: classify.CategoryPolicy, wantReply: replyMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGen{resp: "답변"}
			policy := policyIndex([]string{"대구시 청년 창업 지원정책"}, [][]float32{{1}})
			s := newService(fakeClassifier{cat: tc.predicted}, fakeRetriever{a: assembly}, gen, fakeEmb{vec: []float32{1}}, policy, fakeTrends{})

			reply, err := s.Ask(context.Background(), AskInput{Message: "질문", Category: tc.claimed})
			if err != nil {
				t.Fatalf("Ask: %v", err)
			}
			if tc.wantGen {
				if len(gen.calls) == 0 {
					t.Fatalf("expected a generation call")
				}
				if reply.Reply != "답변" {
					t.Fatalf("reply = %q", reply.Reply)
				}
				return
			}
			if reply.Reply != tc.wantReply {
				t.Fatalf("reply = %q, want %q", reply.Reply, tc.wantReply)
			}
			if len(gen.calls) != 0 {
				t.Fatalf("mismatch path called the oracle")
			}
		})
	}
}

func TestAskStartupBudgetAndEvidence(t *testing.T) {
	assembly := retrieval.Assembly{
		Contexts:        []string{"[통계] 2024 카페 창업률 8%"},
		Sector:          "카페",
		Picks:           []retrieval.Pick{{Name: "라떼하우스", Status: corpus.StatusOpen}},
		TotalBusinesses: 7,
	}
	gen := &fakeGen{resp: "답변"}
	s := newService(fakeClassifier{cat: classify.CategoryStartup}, fakeRetriever{a: assembly}, gen, fakeEmb{}, corpus.Empty(), fakeTrends{})

	if _, err := s.Ask(context.Background(), AskInput{Message: "카페 창업률은?", Category: "startup"}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("generation calls = %d, want 1", len(gen.calls))
	}
	call := gen.calls[0]
	if call.maxTokens != startupTokenBudget || !call.deterministic {
		t.Fatalf("call = %+v, want %d deterministic tokens", call, startupTokenBudget)
	}
	if !strings.Contains(call.user, "[통계] 2024 카페 창업률 8%") {
		t.Fatalf("prompt missing evidence: %q", call.user)
	}
	if !strings.Contains(call.user, "7곳") || !strings.Contains(call.user, "라떼하우스") {
		t.Fatalf("prompt missing business picks: %q", call.user)
	}
}

func TestAskStartupNoEvidence(t *testing.T) {
	gen := &fakeGen{}
	s := newService(fakeClassifier{cat: classify.CategoryStartup}, fakeRetriever{}, gen, fakeEmb{}, corpus.Empty(), fakeTrends{})

	reply, err := s.Ask(context.Background(), AskInput{Message: "희귀 업종?", Category: "startup"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Reply != replyNoStartup {
		t.Fatalf("reply = %q, want no-data template", reply.Reply)
	}
	if len(gen.calls) != 0 {
		t.Fatalf("oracle called with empty evidence")
	}
}

func TestAskPolicySimilarityFloor(t *testing.T) {
	// both rows score below 0.25 for the query; the canned reply wins
	policy := policyIndex([]string{"정책 A", "정책 B"}, [][]float32{{0.1}, {0.2}})
	gen := &fakeGen{}
	s := newService(fakeClassifier{cat: classify.CategoryPolicy}, fakeRetriever{}, gen, fakeEmb{vec: []float32{1}}, policy, fakeTrends{})

	reply, err := s.Ask(context.Background(), AskInput{Message: "지원 사업?", Category: "policy"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Reply != replyNoPolicy {
		t.Fatalf("reply = %q, want no-policy template", reply.Reply)
	}
	if len(gen.calls) != 0 {
		t.Fatalf("oracle called with no hits above the floor")
	}
}

func TestAskPolicyUsesBudget(t *testing.T) {
	policy := policyIndex([]string{"대구시 청년 창업 지원정책"}, [][]float32{{1}})
	gen := &fakeGen{resp: "정책 답변"}
	s := newService(fakeClassifier{cat: classify.CategoryPolicy}, fakeRetriever{}, gen, fakeEmb{vec: []float32{1}}, policy, fakeTrends{})

	if _, err := s.Ask(context.Background(), AskInput{Message: "지원 사업?", Category: "policy"}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(gen.calls) != 1 || gen.calls[0].maxTokens != policyTokenBudget {
		t.Fatalf("calls = %+v, want one %d-token call", gen.calls, policyTokenBudget)
	}
	if !strings.Contains(gen.calls[0].user, "대구시 청년 창업 지원정책") {
		t.Fatalf("prompt missing policy rows: %q", gen.calls[0].user)
	}
}

func TestAskTrendFlow(t *testing.T) {
	gen := &fakeGen{resp: "탕후루"}
	trends := fakeTrends{points: []trend.Point{{Period: "2025-08-01", Ratio: 61}}}
	s := newService(fakeClassifier{cat: classify.CategoryTrend}, fakeRetriever{}, gen, fakeEmb{}, corpus.Empty(), trends)

	reply, err := s.Ask(context.Background(), AskInput{Message: "요즘 탕후루 어때?", Category: "trend"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Reply != "탕후루" {
		t.Fatalf("reply = %q", reply.Reply)
	}
	if len(gen.calls) != 2 {
		t.Fatalf("generation calls = %d, want keyword extraction + answer", len(gen.calls))
	}
	if gen.calls[0].maxTokens != keywordTokenBudget {
		t.Fatalf("keyword call budget = %d, want %d", gen.calls[0].maxTokens, keywordTokenBudget)
	}
	if gen.calls[1].maxTokens != trendTokenBudget {
		t.Fatalf("answer call budget = %d, want %d", gen.calls[1].maxTokens, trendTokenBudget)
	}
	if !strings.Contains(gen.calls[1].user, "탕후루 검색량: 2025-08-01:61") {
		t.Fatalf("trend prompt missing series: %q", gen.calls[1].user)
	}
}

func TestAskTrendFetchFailureDegrades(t *testing.T) {
	gen := &fakeGen{resp: "탕후루"}
	s := newService(fakeClassifier{cat: classify.CategoryTrend}, fakeRetriever{}, gen, fakeEmb{}, corpus.Empty(),
		fakeTrends{err: errors.New("quota")})

	reply, err := s.Ask(context.Background(), AskInput{Message: "요즘 탕후루 어때?", Category: "trend"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Reply != replyNoTrend {
		t.Fatalf("reply = %q, want no-trend template", reply.Reply)
	}
}

func TestAskClassifierErrorPropagates(t *testing.T) {
	s := newService(fakeClassifier{err: errors.New("oracle down")}, fakeRetriever{}, &fakeGen{}, fakeEmb{}, corpus.Empty(), fakeTrends{})
	if _, err := s.Ask(context.Background(), AskInput{Message: "질문", Category: "startup"}); err == nil {
		t.Fatalf("expected classifier error to propagate")
	}
}

func TestNewWithoutClickhouseDisablesSink(t *testing.T) {
	s := newService(fakeClassifier{}, fakeRetriever{}, &fakeGen{}, fakeEmb{}, corpus.Empty(), fakeTrends{})
	if s.sink != nil {
		t.Fatalf("sink wired without a clickhouse handle")
	}
}

func TestAskAnswerLogDoesNotBlockReply(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{}), rows: make(chan ch.AnswerRow, 1)}
	s := newService(fakeClassifier{cat: classify.CategoryUnknown}, fakeRetriever{}, &fakeGen{}, fakeEmb{}, corpus.Empty(), fakeTrends{})
	s.sink = sink

	// a synchronous sink would deadlock here: Append is held until release
	reply, err := s.Ask(context.Background(), AskInput{Message: "서울 날씨", Category: "startup"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	close(sink.release)
	select {
	case row := <-sink.rows:
		if row.AnswerID != reply.AnswerID {
			t.Fatalf("row answer id = %q, want %q", row.AnswerID, reply.AnswerID)
		}
		if row.Question != "서울 날씨" || row.Category != "unknown" {
			t.Fatalf("row = %+v", row)
		}
	case <-time.After(time.Second):
		t.Fatalf("answer row never reached the sink")
	}
}

func TestExtractKeywordTakesFirstOfCommaList(t *testing.T) {
	gen := &fakeGen{resp: " 탕후루, 요아정 "}
	s := newService(fakeClassifier{}, fakeRetriever{}, gen, fakeEmb{}, corpus.Empty(), fakeTrends{})

	got, err := s.extractKeyword(context.Background(), "요즘 뭐가 인기야?")
	if err != nil {
		t.Fatalf("extractKeyword: %v", err)
	}
	if got != "탕후루" {
		t.Fatalf("keyword = %q, want 탕후루", got)
	}
}
