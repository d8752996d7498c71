package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/vizkit/plotspec/internal/pkg/spec"
)

// Page collects charts and knows how to render them as a single HTML page.
type Page struct {
	Title  string
	charts []components.Charter
}

// NewPage creates a new page with the given title.
func NewPage(title string) *Page {
	return &Page{
		Title: title,
	}
}

// AddSpec converts a chart spec and adds the resulting chart to the page.
func (p *Page) AddSpec(r *Renderer, s *spec.ChartSpec) error {
	chart, err := r.Chart(s)
	if err != nil {
		return err
	}

	p.charts = append(p.charts, chart)

	return nil
}

// Render writes the page HTML to the given writer.
func (p *Page) Render(w io.Writer) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.SetPageTitle(p.Title)
	page.AddCharts(p.charts...)

	return page.Render(w)
}
