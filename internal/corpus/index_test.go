package corpus

import (
	"reflect"
	"testing"
)

func texts(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Text)
	}
	return out
}

func TestTopKRankingIsStable(t *testing.T) {
	// unit query {1,0}: dot products are 0.9, 0.1, 0.5
	ix := NewIndex(
		[]Record{
			{Kind: KindStatistic, Text: "a"},
			{Kind: KindStatistic, Text: "b"},
			{Kind: KindStatistic, Text: "c"},
		},
		[][]float32{{0.9, 0}, {0.1, 0}, {0.5, 0}},
	)

	got := ix.TopK([]float32{1, 0}, 2)
	if want := []string{"a", "c"}; !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("TopK = %v, want %v", texts(got), want)
	}
}

func TestTopKTieKeepsOriginalOrder(t *testing.T) {
	ix := NewIndex(
		[]Record{{Text: "first"}, {Text: "second"}, {Text: "third"}},
		[][]float32{{0.5}, {0.5}, {0.9}},
	)
	got := ix.TopK([]float32{1}, 3)
	if want := []string{"third", "first", "second"}; !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("TopK = %v, want %v", texts(got), want)
	}
}

func TestTopKHasNoSimilarityFloor(t *testing.T) {
	// fully opposed unit vectors score exactly -1 and must still rank
	ix := NewIndex(
		[]Record{{Text: "aligned"}, {Text: "opposed"}},
		[][]float32{{1, 0}, {-1, 0}},
	)
	got := ix.TopK([]float32{1, 0}, 2)
	if want := []string{"aligned", "opposed"}; !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("TopK = %v, want %v", texts(got), want)
	}
}

func TestTopKEmptyIndex(t *testing.T) {
	if got := Empty().TopK([]float32{1}, 5); got != nil {
		t.Fatalf("empty index TopK = %v, want nil", got)
	}
}

func TestTopKMinFloor(t *testing.T) {
	ix := NewIndex(
		[]Record{{Text: "strong"}, {Text: "weak"}, {Text: "mid"}},
		[][]float32{{0.9}, {0.1}, {0.3}},
	)

	got := ix.TopKMin([]float32{1}, 5, 0.25)
	if want := []string{"strong", "mid"}; !reflect.DeepEqual(texts(got), want) {
		t.Fatalf("TopKMin = %v, want %v", texts(got), want)
	}

	// everything under the floor yields nil, not an error
	if got := ix.TopKMin([]float32{1}, 5, 0.95); got != nil {
		t.Fatalf("TopKMin above all sims = %v, want nil", got)
	}
}

func TestNewIndexDropsUnpairedRecords(t *testing.T) {
	ix := NewIndex(
		[]Record{{Text: "a"}, {Text: "b"}},
		[][]float32{{1}},
	)
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.Len())
	}
}
