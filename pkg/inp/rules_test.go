package inp

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

const ruleNetwork = `[OPTIONS]
 UNITS LPS
[JUNCTIONS]
 J1 10
 J2 10
[TANKS]
 T1 20 3 1 6 10 0
[PIPES]
 P1 J1 J2 100 300 100
[PUMPS]
 PU1 J2 T1 POWER 5
`

func TestGroupClausesJoinsWrappedLines(t *testing.T) {
	lines := []rawLine{
		{Num: 1, Text: "RULE R1"},
		{Num: 2, Text: "IF TANK T1"},
		{Num: 3, Text: "  LEVEL ABOVE 5 ; wrapped"},
		{Num: 4, Text: "THEN PUMP PU1 STATUS IS CLOSED PRIORITY 2"},
	}
	got := groupClauses(lines)

	want := []string{"RULE", "IF", "THEN", "PRIORITY"}
	if len(got) != len(want) {
		t.Fatalf("got %d clauses, want %d", len(got), len(want))
	}
	for i, kw := range want {
		if got[i].keyword() != kw {
			t.Errorf("clause %d = %s, want %s", i, got[i].keyword(), kw)
		}
	}
	if n := len(got[1].words); n != 6 {
		t.Errorf("IF clause has %d words, want 6: %v", n, got[1].words)
	}
	if got[1].line.Num != 2 {
		t.Errorf("IF clause line = %d, want 2", got[1].line.Num)
	}
}

func TestReadRuleConditions(t *testing.T) {
	m, err := decodeString(t, ruleNetwork+`[RULES]
RULE R1
IF TANK T1 LEVEL ABOVE 5
OR SYSTEM TIME >= 10
AND LINK P1 STATUS IS OPEN
THEN PUMP PU1 STATUS IS CLOSED
AND PIPE P1 STATUS IS CLOSED
PRIORITY 3
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, err := m.Control("R1")
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind != network.RuleControl || r.Priority != 3 || len(r.Then) != 2 {
		t.Errorf("rule = %+v", r)
	}

	// (level OR time) AND status
	and, ok := r.Condition.(*network.AndCondition)
	if !ok {
		t.Fatalf("condition = %T, want AND", r.Condition)
	}
	or, ok := and.Left.(*network.OrCondition)
	if !ok {
		t.Fatalf("left = %T, want OR", and.Left)
	}
	level := or.Left.(*network.ValueCondition)
	if level.Attribute != network.AttrLevel || level.Relation != network.Above || level.Threshold != 5 {
		t.Errorf("level condition = %+v", level)
	}
	if sim := or.Right.(*network.SimTimeCondition); sim.Seconds != 36000 || sim.Relation != network.AtLeast {
		t.Errorf("time condition = %+v", sim)
	}
	status := and.Right.(*network.ValueCondition)
	if status.Element != network.LinkElement || status.Status != network.Open {
		t.Errorf("status condition = %+v", status)
	}
}

func TestReadRuleErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"else before then", "RULE X\nIF TANK T1 LEVEL > 2\nELSE PUMP PU1 STATUS IS OPEN\n", ErrBadKeyword},
		{"clause before rule", "IF TANK T1 LEVEL > 2\n", ErrBadKeyword},
		{"unknown attribute", "RULE X\nIF TANK T1 COLOUR > 2\nTHEN PUMP PU1 STATUS IS OPEN\n", ErrBadKeyword},
		{"unknown link", "RULE X\nIF TANK T1 LEVEL > 2\nTHEN PUMP PU9 STATUS IS OPEN\n", network.ErrMissingReference},
		{"unknown node", "RULE X\nIF TANK T9 LEVEL > 2\nTHEN PUMP PU1 STATUS IS OPEN\n", network.ErrMissingReference},
		{"numeric pipe setting", "RULE X\nIF TANK T1 LEVEL > 2\nTHEN PIPE P1 SETTING = 4\n", network.ErrInvalidValue},
		{"no then", "RULE X\nIF TANK T1 LEVEL > 2\n", ErrIncompleteRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeString(t, ruleNetwork+"[RULES]\n"+tt.body)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadDuplicateRuleSkipped(t *testing.T) {
	m, err := decodeString(t, ruleNetwork+`[RULES]
RULE X
IF TANK T1 LEVEL > 2
THEN PUMP PU1 STATUS IS OPEN
RULE X
IF TANK T1 LEVEL < 1
THEN PUMP PU1 STATUS IS CLOSED
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, _ := m.Control("X")
	if r.Then[0].Status != network.Open {
		t.Errorf("first rule should win, got %+v", r.Then[0])
	}
}
