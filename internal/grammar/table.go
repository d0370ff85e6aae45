// Package grammar validates event streams against declarative transition
// tables. The tables are data, written with the same row syntax the lexer
// understands, and the Engine is a generic interpreter of them.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chriserin/gk/internal/lexer"
)

// Illegal marks a transition table cell with no legal outcome.
const Illegal = "E"

// OutcomeKind says what a transition does to the machine stack.
type OutcomeKind int

const (
	OutcomeIllegal OutcomeKind = iota
	OutcomeGoto
	OutcomePush
	OutcomePop
)

// Outcome is one table cell. Target is the next state for OutcomeGoto and
// the machine name for OutcomePush.
type Outcome struct {
	Kind   OutcomeKind
	Target string
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeGoto:
		return o.Target
	case OutcomePush:
		return "push(" + o.Target + ")"
	case OutcomePop:
		return "pop()"
	}
	return Illegal
}

func parseOutcome(cell string) (Outcome, error) {
	switch {
	case cell == Illegal:
		return Outcome{Kind: OutcomeIllegal}, nil
	case cell == "pop()":
		return Outcome{Kind: OutcomePop}, nil
	case strings.HasPrefix(cell, "push(") && strings.HasSuffix(cell, ")"):
		target := cell[len("push(") : len(cell)-1]
		if target == "" {
			return Outcome{}, fmt.Errorf("push without machine name")
		}
		return Outcome{Kind: OutcomePush, Target: target}, nil
	case cell == "" || strings.ContainsAny(cell, "() \t"):
		return Outcome{}, fmt.Errorf("malformed outcome %q", cell)
	}
	return Outcome{Kind: OutcomeGoto, Target: cell}, nil
}

// Table is the immutable transition table of one machine. The machine starts
// in the state named like the machine itself.
type Table struct {
	name        string
	events      []lexer.Kind
	states      []string
	transitions map[string]map[lexer.Kind]Outcome
}

// Name returns the machine name the table was loaded for.
func (t *Table) Name() string { return t.name }

// Initial returns the state a freshly pushed machine starts in.
func (t *Table) Initial() string { return t.name }

// States returns the state names in table order.
func (t *Table) States() []string {
	return append([]string(nil), t.states...)
}

// Outcome looks up the transition for kind in state. Events without a column
// and unknown states are illegal.
func (t *Table) Outcome(state string, kind lexer.Kind) Outcome {
	return t.transitions[state][kind]
}

// Legal returns the sorted names of the events with a legal outcome from
// state in this table alone.
func (t *Table) Legal(state string) []string {
	var names []string
	for kind, out := range t.transitions[state] {
		if out.Kind != OutcomeIllegal {
			names = append(names, kind.String())
		}
	}
	sort.Strings(names)
	return names
}

// PushTargets returns the sorted names of the machines this table pushes.
func (t *Table) PushTargets() []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range t.transitions {
		for _, out := range row {
			if out.Kind == OutcomePush && !seen[out.Target] {
				seen[out.Target] = true
				names = append(names, out.Target)
			}
		}
	}
	sort.Strings(names)
	return names
}

// buildTable turns the row events of a table file into a Table. The first
// row is the header; its first cell is ignored and the rest name events.
func buildTable(name string, rows []lexer.Event) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("machine %s: empty transition table", name)
	}

	header := rows[0]
	t := &Table{
		name:        name,
		transitions: make(map[string]map[lexer.Kind]Outcome),
	}
	for _, cell := range header.Cells[1:] {
		kind, ok := lexer.ParseKind(cell)
		if !ok || kind == lexer.KindSyntaxError {
			return nil, fmt.Errorf("machine %s line %d: unknown event %q", name, header.Line, cell)
		}
		t.events = append(t.events, kind)
	}

	for _, row := range rows[1:] {
		if len(row.Cells) != len(header.Cells) {
			return nil, fmt.Errorf("machine %s line %d: %d cells, header has %d",
				name, row.Line, len(row.Cells), len(header.Cells))
		}
		state := row.Cells[0]
		if _, dup := t.transitions[state]; dup {
			return nil, fmt.Errorf("machine %s line %d: duplicate state %q", name, row.Line, state)
		}
		outcomes := make(map[lexer.Kind]Outcome, len(t.events))
		for i, cell := range row.Cells[1:] {
			out, err := parseOutcome(cell)
			if err != nil {
				return nil, fmt.Errorf("machine %s line %d: %w", name, row.Line, err)
			}
			outcomes[t.events[i]] = out
		}
		t.states = append(t.states, state)
		t.transitions[state] = outcomes
	}

	if _, ok := t.transitions[t.Initial()]; !ok {
		return nil, fmt.Errorf("machine %s: no initial state %q", name, t.Initial())
	}
	for _, state := range t.states {
		for kind, out := range t.transitions[state] {
			if out.Kind != OutcomeGoto {
				continue
			}
			if _, ok := t.transitions[out.Target]; !ok {
				return nil, fmt.Errorf("machine %s: state %s on %s goes to undefined state %q",
					name, state, kind, out.Target)
			}
		}
	}
	return t, nil
}
