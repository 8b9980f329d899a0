package terminal

import (
	"fmt"
	"strings"

	"github.com/zombor/invoice-capture/internal/invoice"
)

// MemoryGrid is the line-item table kept in memory and edited by commands
type MemoryGrid struct {
	rows   []invoice.LineItem
	edited func()
}

func NewMemoryGrid() *MemoryGrid {
	return &MemoryGrid{}
}

func (g *MemoryGrid) Rows() []invoice.LineItem {
	return invoice.CloneItems(g.rows)
}

func (g *MemoryGrid) ReplaceRows(rows []invoice.LineItem) {
	g.rows = invoice.CloneItems(rows)
}

func (g *MemoryGrid) AddRow(row invoice.LineItem) {
	g.rows = append(g.rows, row)
}

func (g *MemoryGrid) OnRowEdited(fn func()) {
	g.edited = fn
}

// Edit sets one cell of row i and runs the edit handler. Numbers accept a
// comma as decimal separator.
func (g *MemoryGrid) Edit(i int, field, value string) error {
	if i < 0 || i >= len(g.rows) {
		return fmt.Errorf("no item %d", i+1)
	}

	row := &g.rows[i]
	switch strings.ToLower(field) {
	case "article":
		row.Article = value
	case "name":
		row.Name = value
	case "qty", "quantity":
		v, ok := invoice.Amount(value).Float()
		if !ok {
			return fmt.Errorf("invalid quantity %q", value)
		}
		row.Quantity = v
	case "price":
		v, ok := invoice.Amount(value).Float()
		if !ok {
			return fmt.Errorf("invalid price %q", value)
		}
		row.UnitPrice = v
	default:
		return fmt.Errorf("unknown column %q (use article, name, qty or price)", field)
	}

	if g.edited != nil {
		g.edited()
	}
	return nil
}
