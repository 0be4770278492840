package classify

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"shopkeeper/internal/core/gate"
	"shopkeeper/internal/core/keywordpack"
	"shopkeeper/internal/modkit"
	"shopkeeper/internal/oracle"
	"shopkeeper/internal/platform/logger"
)

// letterBudget is the classifier output budget; one letter is expected
const letterBudget = 4

// Service classifies questions. Safe for concurrent use
type Service struct {
	pack *keywordpack.Pack
	gen  Generator
	log  logger.Logger
}

// New constructs a classification service
func New(d modkit.Deps, pack *keywordpack.Pack, gen Generator) *Service {
	return &Service{pack: pack, gen: gen, log: d.Named("classify")}
}

// Classify resolves the category of question. The claimed category is a hint
// for the letter classifier only, never authoritative. Gate verdicts return
// without touching the oracle; only an unreachable oracle is an error
func (s *Service) Classify(ctx context.Context, question, claimed string) (Category, error) {
	sum := gate.Preprocess(s.pack, question, gate.DefaultMaxLen)

	switch gate.Resolve(sum) {
	case gate.Reject:
		return CategoryUnknown, nil
	case gate.Policy:
		return CategoryPolicy, nil
	}

	resp, err := s.gen.Generate(ctx, letterMessages(sum.Text, claimed), letterBudget, true)
	if err != nil {
		return CategoryUnknown, err
	}

	cat := letterToCategory(resp)
	s.log.Debug().Str("letter", strings.TrimSpace(resp)).Str("category", string(cat)).Msg("letter classifier resolved")
	return cat, nil
}

// letterToCategory maps the oracle reply to a category; anything that is not
// a clean A/B/C/D collapses to unknown rather than erroring
func letterToCategory(resp string) Category {
	trimmed := strings.TrimSpace(resp)
	if trimmed == "" {
		return CategoryUnknown
	}
	switch unicode.ToUpper([]rune(trimmed)[0]) {
	case 'A':
		return CategoryStartup
	case 'B':
		return CategoryPolicy
	case 'C':
		return CategoryTrend
	default:
		return CategoryUnknown
	}
}

// letterMessages builds the fixed-structure labeling prompt. The summary, not
// the raw question, is the question text
func letterMessages(summary, claimed string) []oracle.Message {
	prompt := fmt.Sprintf(
		"질문: \"%s\"\n"+
			"힌트(참고): 사용자가 선택한 카테고리 -> %s (startup=창업, policy=정책, trend=트렌드)\n"+
			"역할: 동성로(대구 중구) 창업 전용 라벨러. 출력은 A/B/C/D 중 **대문자 한 글자**.\n\n"+
			"규칙(우선순위 고정):\n"+
			"1) D 게이트 — 하나라도 맞으면 즉시 D\n"+
			"    • 지역이 명시되고 동성로/대구 중구가 아님: 서울/강남/부산/서면/달서구/수성구/대구 전역·전체/전국/전 세계(세계/글로벌/해외)등\n"+
			"    • 날씨/기상(오늘 날씨·기온·미세먼지·비/눈), 정치/정당/정치인(인기·평가 포함)\n"+
			"    • 스팸 특수문자 반복(예: ## $$ @@), 비현실 업종(우주/위성/발사체)\n"+
			"    • 부동산 일반 가격전망(아파트/주택/'부동산 전체') — 상가·점포 임대료/권리금은 예외\n"+
			"2) B 오버라이드 — 아래 단어가 보이면 지역 없어도 B\n"+
			"    지원/정책/공고/모집/신청/접수/마감/요건/자격/대상/서류/절차/대출/무이자/보증/바우처/보조금/융자/\n"+
			"    R&D/시제품/컨설팅/멘토링/교육/4대 보험/세금/부가세/인허가/사업자등록/임대차/계약/원상복구/SNS 마케팅 컨설팅\n"+
			"3) 위 둘이 아니고 동성로 창업 도메인이면 A/C 중 선택\n"+
			"    • A: 지표·수치/타당성(창업률/폐업률/생존율/점포수/통계/기간비교, '~창업 어때?' 등)\n"+
			"    • C: 인기/유행/트렌드/검색량/유동인구/'요즘' 등 동향, **유명 프랜차이즈/인기 품목(예: 탕후루, 마라탕, 요아정 등)**\n",
		summary, claimed)

	return []oracle.Message{
		{
			Role: "system",
			Content: "동성로 전용 라벨러. **타지역·전세계·대구 전역·날씨·정치·스팸·우주·부동산 일반**이면 **무조건 D**. " +
				"정책 키워드면 **무조건 B**. 그 외는 A 또는 C. 반드시 한 글자(A/B/C/D)만 출력.",
		},
		{Role: "user", Content: prompt},
	}
}
