// Command shopkeeper-gate triages questions offline: it runs the
// deterministic gate and sector detection over stdin lines (or a single -q
// question) without touching any oracle, for rule tuning and batch audits
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"shopkeeper/internal/core/gate"
	"shopkeeper/internal/core/keywordpack"
	"shopkeeper/internal/core/sector"
)

type triage struct {
	Question string `json:"question"`
	Verdict  string `json:"verdict"`
	Summary  string `json:"summary"`
	Sector   string `json:"sector"`
	Score    int    `json:"score"`
}

func main() {
	var (
		question = flag.String("q", "", "single question; omit to read lines from stdin")
		asJSON   = flag.Bool("json", false, "emit one JSON object per line")
	)
	flag.Parse()

	pack, err := keywordpack.Load()
	if err != nil {
		log.Fatalf("load keyword pack: %v", err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer func() { _ = out.Flush() }()

	if *question != "" {
		emit(out, pack, *question, *asJSON)
		return
	}

	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		emit(out, pack, line, *asJSON)
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}

func emit(out *bufio.Writer, pack *keywordpack.Pack, question string, asJSON bool) {
	sum := gate.Preprocess(pack, question, gate.DefaultMaxLen)

	t := triage{
		Question: question,
		Verdict:  verdictString(gate.Resolve(sum)),
		Summary:  sum.Text,
		Sector:   sector.Detect(pack, question),
		Score:    gate.ScoreSentence(pack, strings.ToLower(sum.Text)),
	}

	if asJSON {
		b, _ := json.Marshal(t)
		fmt.Fprintln(out, string(b))
		return
	}
	fmt.Fprintf(out, "%-12s %-8s score=%-3d %s\n", t.Verdict, t.Sector, t.Score, t.Question)
}

func verdictString(v gate.Verdict) string {
	switch v {
	case gate.Reject:
		return "reject"
	case gate.Policy:
		return "policy"
	default:
		return "undetermined"
	}
}
