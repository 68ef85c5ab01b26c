package plotpage

import (
	"fmt"
	"html/template"
	"io"
)

// Text is a plain-paragraph renderable, used where a chart would go when
// there is no data to plot.
type Text struct {
	msg string
}

// NewText creates a Text renderable with the given message.
func NewText(msg string) *Text {
	return &Text{msg: msg}
}

// Render writes the message as an escaped paragraph.
func (t *Text) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, `<p class="section-subtitle">%s</p>`, template.HTMLEscapeString(t.msg))
	if err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

// Stat describes a single summary figure, e.g. "Titles matched: 312".
type Stat struct {
	Label string
	Value string
	Note  string
}

// StatCard renders a single stat card.
func StatCard(stat Stat) template.HTML {
	return mustRenderTemplate("stat.html", statData{
		Label: stat.Label,
		Value: stat.Value,
		Note:  stat.Note,
	})
}

// StatGrid renders a responsive grid of stat cards.
func StatGrid(stats []Stat) template.HTML {
	items := make([]template.HTML, len(stats))
	for i, s := range stats {
		items[i] = StatCard(s)
	}

	colClass := "grid-cols-2 md:grid-cols-4"
	if len(stats) < 4 {
		colClass = "grid-cols-1 md:grid-cols-3"
	}

	return mustRenderTemplate("grid.html", gridData{
		ColClass: colClass,
		Items:    items,
	})
}

// Table renders a striped data table.
func Table(headers []string, rows [][]template.HTML) template.HTML {
	return mustRenderTemplate("table.html", tableData{
		Headers: headers,
		Rows:    rows,
		Striped: true,
	})
}
