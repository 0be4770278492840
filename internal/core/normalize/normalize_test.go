package normalize

import (
	"reflect"
	"testing"
)

func TestFold_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity korean",
			in:   "동성로 창업",
			out:  "동성로 창업",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff}) + "카페" + string([]byte{0x80}),
			out:  "카페",
		},
		{
			name: "case fold",
			in:   "CAFE 창업",
			out:  "cafe 창업",
		},
		{
			name: "width fold fullwidth",
			in:   "ＣＡＦＥ 상권",
			out:  "cafe 상권",
		},
		{
			name: "remove zero-widths",
			in:   "창​업\uFEFF",
			out:  "창업",
		},
		{
			name: "nfkc compatibility jamo",
			in:   "ㄱㅏ", // compatibility ㄱ + ㅏ
			out:  "가",
		},
		{
			name: "collapse whitespace",
			in:   "  동성로 \t 카페 \n 창업  ",
			out:  "동성로 카페 창업",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Fold(tc.in)
			if got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
			// folding twice must be identical
			if got2 := Fold(got); got2 != got {
				t.Fatalf("Fold not idempotent: %q -> %q", got, got2)
			}
		})
	}
}

func TestSpace(t *testing.T) {
	in := " \t 대구 \n 중구   상권 \r\n "
	want := "대구 중구 상권"
	if got := Space(in); got != want {
		t.Fatalf("Space(%q) = %q, want %q", in, got, want)
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "mixed boundaries",
			in:   "a.b!c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "newline pipe slash dash",
			in:   "창업 지원\n정책 안내|트렌드/상권-분석",
			want: []string{"창업 지원", "정책 안내", "트렌드", "상권", "분석"},
		},
		{
			name: "drops empty pieces",
			in:   "...동성로?? !",
			want: []string{"동성로"},
		},
		{
			name: "trims each sentence",
			in:   "  카페 창업률 .  정책 자금  ",
			want: []string{"카페 창업률", "정책 자금"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Sentences(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Sentences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
