package grammar

import (
	"sort"

	"github.com/chriserin/gk/internal/lexer"
)

const (
	maxDepth       = 32
	maxTransitions = 256
)

type machine struct {
	table *Table
	state string
}

// Engine validates events against a stack of machines. The root machine is
// always at the bottom of the stack; push and pop outcomes re-feed the same
// event to the new top machine.
type Engine struct {
	root   string
	tables map[string]*Table
	stack  []machine
	failed bool
}

// NewEngine returns an Engine whose bottom machine is root. Every machine
// reachable through push outcomes is loaded up front, so a missing table is
// reported here rather than in the middle of a document.
func NewEngine(c *Catalog, root string) (*Engine, error) {
	e := &Engine{root: root, tables: make(map[string]*Table)}
	queue := []string{root}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, ok := e.tables[name]; ok {
			continue
		}
		t, err := c.Table(name)
		if err != nil {
			return nil, err
		}
		e.tables[name] = t
		queue = append(queue, t.PushTargets()...)
	}
	e.Reset()
	return e, nil
}

// Reset discards every machine and starts a fresh root machine.
func (e *Engine) Reset() {
	t := e.tables[e.root]
	e.stack = []machine{{table: t, state: t.Initial()}}
	e.failed = false
}

// Feed advances the engine by one event. An illegal event leaves the stack
// exactly as it was and returns a *SyntaxError naming the top machine and
// state, the same ones Expected starts from. After eof the engine resets
// itself for the next document.
func (e *Engine) Feed(ev lexer.Event) error {
	top := e.stack[len(e.stack)-1]
	stack, err := e.transition(ev.Kind)
	if err != nil {
		return err
	}
	if stack == nil {
		e.failed = true
		return &SyntaxError{
			Machine:  top.table.Name(),
			State:    top.state,
			Event:    ev.Kind.String(),
			Expected: e.Expected(),
			Line:     ev.Line,
		}
	}
	e.stack = stack
	if ev.Kind == lexer.KindEOF {
		e.Reset()
	}
	return nil
}

// transition computes the stack that results from feeding kind without
// touching the engine. A rejected event returns a nil stack.
func (e *Engine) transition(kind lexer.Kind) ([]machine, error) {
	stack := append([]machine(nil), e.stack...)
	for n := 0; n < maxTransitions; n++ {
		top := &stack[len(stack)-1]
		out := top.table.Outcome(top.state, kind)
		switch out.Kind {
		case OutcomeIllegal:
			return nil, nil
		case OutcomeGoto:
			top.state = out.Target
			return stack, nil
		case OutcomePush:
			if len(stack) == maxDepth {
				return nil, ErrMachineDepth
			}
			t := e.tables[out.Target]
			stack = append(stack, machine{table: t, state: t.Initial()})
		case OutcomePop:
			if len(stack) == 1 {
				return nil, ErrStackUnderflow
			}
			stack = stack[:len(stack)-1]
		}
	}
	return nil, ErrMachineDepth
}

// Expected returns the sorted names of the events that Feed would accept
// next, following push and pop outcomes down the stack. Eof is left out.
func (e *Engine) Expected() []string {
	var names []string
	for kind := lexer.KindComment; kind < lexer.KindEOF; kind++ {
		stack, err := e.transition(kind)
		if err == nil && stack != nil {
			names = append(names, kind.String())
		}
	}
	sort.Strings(names)
	return names
}

// State returns the state of the top machine.
func (e *Engine) State() string {
	return e.stack[len(e.stack)-1].state
}

// Machine returns the name of the top machine.
func (e *Engine) Machine() string {
	return e.stack[len(e.stack)-1].table.Name()
}

// Depth returns the number of machines on the stack.
func (e *Engine) Depth() int {
	return len(e.stack)
}

// Failed reports whether an event has been rejected since the last reset.
func (e *Engine) Failed() bool {
	return e.failed
}
