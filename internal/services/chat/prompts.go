package chat

import (
	"fmt"
	"strings"

	"shopkeeper/internal/oracle"
	"shopkeeper/internal/services/retrieval"
)

// canned replies surfaced without touching the generation oracle
const (
	replyStudyHarder = "더 공부하는 챗봇이 될게요!"
	replyMismatch    = "질문이 현재 선택된 카테고리와 맞지 않아요. 카테고리를 변경해 주세요."
	replyNoPolicy    = "죄송하지만 적절한 데이터를 찾지 못했어요. 다른 질문을 해보시는건 어떨까요?"
	replyNoTrend     = "트렌드 데이터를 찾을 수 없어 정확한 분석이 어렵습니다. 다른 키워드로 다시 질문해 주세요!"
)

const replyNoStartup = `안녕하세요! 대구 동성로 창업 지원 챗봇입니다.
죄송하지만 질문과 관련된 자료를 찾지 못했습니다.
더 구체적인 키워드로 다시 질문해주세요.
예시: "동성로 카페 창업률은?", "치킨집 폐업률 통계는?"`

// startupMessages carries the assembled evidence into the statistics prompt
func startupMessages(question string, a retrieval.Assembly) []oracle.Message {
	var picks strings.Builder
	if len(a.Picks) > 0 {
		fmt.Fprintf(&picks, "%s 관련 사업장 %d곳 중 예시:\n", a.Sector, a.TotalBusinesses)
		for _, p := range a.Picks {
			fmt.Fprintf(&picks, "- %s (%s)\n", p.Name, p.Status)
		}
	}

	prompt := fmt.Sprintf(
		"현재 시점: 2025년 8월\n"+
			"당신은 대구 동성로 창업 통계 전문가입니다.\n\n"+
			"[핵심 원칙]\n"+
			"✅ 데이터 수치 정확히 제시\n"+
			"서울등, 동성로외 지역은 답변하지 않음\n"+
			"❌ 데이터에 없는 정보 추측 금지, 찾을수없는 데이터는 데이터가 없다고 솔직하게 말할것\n\n"+
			"통계 데이터는 2023년 부터 2025년까지 모두 반영되어야 합니다.\n\n"+
			"절대 임의로 데이터를 생성하지 않을것\n"+
			"[답변 구조]\n"+
			"1. 핵심 통계: 창업률, 폐업률, 생존율 데이터에 기반한 요약정보 제공\n"+
			"2. 창업 실용 조언\n"+
			"   - 통계 데이터 기반 객관적 분석\n"+
			"   - 수치를 바탕으로 한 현실적 조언\n"+
			"   - 업종별 주의사항 (데이터 근거)\n\n"+
			"데이터:\n%s\n%s"+
			"질문: %s\n"+
			"답변:",
		strings.Join(a.Contexts, "\n"), picks.String(), question)

	return []oracle.Message{
		{
			Role: "system",
			Content: "창업 통계 전문가. 데이터에 있는 정확한 수치는 그대로 제시. " +
				"없는 데이터는 절대 생성하지 않을것. " +
				"창업률/폐업률/생존율/사업장 수 등 실제 통계 정확히 제공.",
		},
		{Role: "user", Content: prompt},
	}
}

// policyMessages carries the filtered policy rows into the policy prompt
func policyMessages(question string, contexts []string) []oracle.Message {
	prompt := fmt.Sprintf(
		"현재: 2025년 8월, 대구 창업 정책 상담사\n\n"+
			"[URL 처리 규칙 - 중요]\n"+
			"제공된 정책 데이터에 포함된 URL은 정확히 그대로 출력\n"+
			"데이터에 없는 URL은 절대 생성하지 마세요\n"+
			"전화번호(010, 1588, 1357 등 포함), 이메일은 생성 금지\n\n"+
			"사용자 질문에 맞는 공감 멘트 먼저 생성하고 개요 출력 (예: '창업을 준비중이시군요!')"+
			"[답변 구조]-> ()안에있는 내용은 참고자료로만 사용하고, 답변에는 포함시키지 않을것\n"+
			"🔍상세 정책 설명: (각 정책을 자연스럽게 연결하여 설명할것)\n"+
			"   - '1. [기관명]에서 주관하는 '[사업명]'이 있습니다. [3-4문장 상세설명]'\n"+
			"   - '2. '[사업명]'도 있습니다. [상세설명]'\n"+
			"   - '3. 그 외에도 [다른 정책들] 등이 있습니다.'\n\n"+
			"(정책 목록 정리: 깔끔한 목록 형태로 재정리할것)\n"+
			" 📋지원 목록:\n"+
			"   • [사업명] - [기관명]\n"+
			"   • [사업명] - [기관명]\n\n"+
			"🔗관련 링크\n"+
			"- 위 정보들은 아래 링크에서 더 자세히 확인할 수 있습니다:\n"+
			"- 창업진흥원: https://www.kised.or.kr/ \n"+
			"- 대구창업허브: https://startup.daegu.go.kr/ \n"+
			"(데이터에 URL이 없으면 이 섹션 생략)\n\n"+
			"정책 데이터:\n%s\n\n"+
			"질문: %s\n\n"+
			"답변: 정책 정보와 데이터에 포함된 정확한 URL을 함께 제공하세요.",
		strings.Join(contexts, "\n"), question)

	return []oracle.Message{
		{
			Role: "system",
			Content: "대구 창업 정책 전문가. 데이터에 포함된 정확한 URL은 그대로 출력하되, " +
				"데이터에 없는 URL은 절대 생성하지 않음. 정확한 정보만 제공." +
				"- 정책, 지원이 아닌 정치적 질문에는 더 공부하는 챗봇이 될께요 라고만 출력할것",
		},
		{Role: "user", Content: prompt},
	}
}

// trendMessages carries the search-volume line into the trend prompt
func trendMessages(question, seriesLine string) []oracle.Message {
	prompt := fmt.Sprintf(
		"현재: 2025년 8월, 대구 동성로 창업 트렌드 전문가\n\n"+
			"[필수 준수사항]\n"+
			"- 인물, 정치적인 질문에는 더 공부하는 챗봇이 될께요 라고만 출력할것"+
			"- 네이버 ratio 값은 상대수치(절대값 아님)\n"+
			"- 검색량 ≠ 실제 매출 (반드시 명시)\n"+
			"- URL  (https, http, www 포함), 전화번호 (010, 1588, 1357 등 포함), 구체적 금액 생성 금지\n"+
			"- 추측성 수치 제공 금지\n\n"+
			"- 날씨, 인사 같은 일상질문에는 더 공부하는 챗봇이 될께요 라고만 출력할것\n"+
			"[답변 구조]\n"+
			"📊 트렌드 분석\n"+
			"- 검색량 변화 패턴\n"+
			"- 상승/하락 요인\n\n"+
			"🤔 창업 관점\n"+
			"- 시장 진입 타이밍\n"+
			"- 경쟁 강도 예측\n"+
			"- 동성로 적합성\n\n"+
			"✅ 실행 제안\n"+
			"- 구체적 사업 아이디어\n"+
			"- 차별화 전략\n\n"+
			"‼️ 주의사항\n"+
			"- 데이터 한계 (검색량≠수익성)\n"+
			"- 추가 검토 필요사항\n\n"+
			"참고 데이터:\n%s\n\n"+
			"질문: %s\n"+
			"답변:",
		seriesLine, question)

	return []oracle.Message{
		{
			Role: "system",
			Content: "네이버 데이터랩 전문가 & 대구 동성로 창업 컨설턴트. " +
				"검색 트렌드 데이터 활용해 창업 분석하되, 데이터 한계와 위험 요소 반드시 제시. " +
				"추측하지 않고 데이터 기반 인사이트만 제공." +
				"날씨,인삿말,인물명 등의 질문에는 더 공부하는 챗봇이 될께요 라고만 출력할것",
		},
		{Role: "user", Content: prompt},
	}
}

// keywordMessages asks for the single keyword driving the trend lookup
func keywordMessages(question string) []oracle.Message {
	return []oracle.Message{
		{Role: "system", Content: "키워드만 간단히 추출해줘."},
		{Role: "user", Content: fmt.Sprintf("다음 질문에서 트렌드 분석할 대표적인 키워드 하나만 추출해줘: %s", question)},
	}
}
