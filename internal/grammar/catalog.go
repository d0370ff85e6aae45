package grammar

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/lexer"
)

// MetaMachine is the row-only grammar every other table file is read with.
const MetaMachine = "meta"

//go:embed data/*.txt
var data embed.FS

var defaultCatalog = sync.OnceValue(func() *Catalog {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		panic(err)
	}
	return NewCatalog(sub)
})

// DefaultCatalog returns the process-wide catalog of the built-in grammar.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

type catalogEntry struct {
	once  sync.Once
	table *Table
	err   error
}

// Catalog loads transition tables named <machine>.txt from a file system.
// Each table is read at most once; Catalog is safe for concurrent use.
type Catalog struct {
	fsys    fs.FS
	entries sync.Map
}

func NewCatalog(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

// Table returns the transition table for the named machine.
func (c *Catalog) Table(name string) (*Table, error) {
	v, _ := c.entries.LoadOrStore(name, &catalogEntry{})
	entry := v.(*catalogEntry)
	entry.once.Do(func() {
		entry.table, entry.err = c.load(name)
	})
	return entry.table, entry.err
}

func (c *Catalog) load(name string) (*Table, error) {
	source, err := fs.ReadFile(c.fsys, name+".txt")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &UnknownMachineError{Name: name}
		}
		return nil, fmt.Errorf("reading machine %s: %w", name, err)
	}

	var rows []lexer.Event
	collect := func(e lexer.Event) error {
		if e.Kind == lexer.KindRow {
			rows = append(rows, e)
		}
		return nil
	}

	h := lexer.HandlerFunc(collect)
	if name != MetaMachine {
		meta, err := NewEngine(c, MetaMachine)
		if err != nil {
			return nil, err
		}
		h = func(e lexer.Event) error {
			if err := meta.Feed(e); err != nil {
				var syntaxErr *SyntaxError
				if errors.As(err, &syntaxErr) {
					syntaxErr.URI = name + ".txt"
				}
				return err
			}
			return collect(e)
		}
	}

	scanner := lexer.New(i18n.MustGet(i18n.DefaultLanguage))
	if err := scanner.Scan(string(source), h); err != nil {
		return nil, fmt.Errorf("reading machine %s: %w", name, err)
	}
	return buildTable(name, rows)
}
