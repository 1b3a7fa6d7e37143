// Package chart renders the analysis charts as self-contained HTML files.
package chart

import (
	"path/filepath"
	"sort"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// Plot wraps a plotly figure with its layout.
type Plot struct {
	Fig *grob.Fig
	Lay *grob.Layout
}

// Opt mutates a plot during construction.
type Opt func(p *Plot) *Plot

// NewPlot builds an empty figure and applies the given options.
func NewPlot(opt ...Opt) *Plot {
	fig := &grob.Fig{}
	lay := &grob.Layout{}
	fig.Layout = lay
	p := &Plot{Fig: fig, Lay: lay}
	for _, o := range opt {
		o(p)
	}
	return p
}

// WithTitle sets the figure title.
func WithTitle(title string) Opt {
	return func(p *Plot) *Plot { p.Lay.Title = &grob.LayoutTitle{Text: title}; return p }
}

// WithSize sets the figure dimensions in pixels.
func WithSize(w, h float64) Opt {
	return func(p *Plot) *Plot {
		p.Lay.Width = w
		p.Lay.Height = h
		return p
	}
}

// WithXlabel sets the x axis label.
func WithXlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Xaxis == nil {
			p.Lay.Xaxis = &grob.LayoutXaxis{}
		}
		p.Lay.Xaxis.Title = &grob.LayoutXaxisTitle{Text: label}
		return p
	}
}

// WithYlabel sets the y axis label.
func WithYlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Yaxis == nil {
			p.Lay.Yaxis = &grob.LayoutYaxis{}
		}
		p.Lay.Yaxis.Title = &grob.LayoutYaxisTitle{Text: label}
		return p
	}
}

// WithLegend toggles the legend.
func WithLegend(show bool) Opt {
	return func(p *Plot) *Plot {
		if show {
			p.Lay.Showlegend = grob.True
		} else {
			p.Lay.Showlegend = grob.False
		}
		return p
	}
}

// AddLine appends a line trace.
func (p *Plot) AddLine(name string, x, y []float64, color string) {
	p.Fig.AddTraces(&grob.Scatter{
		Name: name,
		X:    x,
		Y:    y,
		Mode: grob.ScatterModeLines,
		Line: &grob.ScatterLine{Color: color},
	})
}

// AddMarkers appends a marker trace.
func (p *Plot) AddMarkers(name string, x, y []float64, color string) {
	p.Fig.AddTraces(&grob.Scatter{
		Name:   name,
		X:      x,
		Y:      y,
		Mode:   grob.ScatterModeMarkers,
		Marker: &grob.ScatterMarker{Color: color},
	})
}

// Save writes the figure as a standalone HTML file.
func (p *Plot) Save(fileName string) {
	offline.ToHtml(p.Fig, fileName)
}

// RenderGapTrend plots the national income/expense gap over time.
// Returns the written file path, or "" when there is nothing to plot.
func RenderGapTrend(national []schema.GapPoint, dir string) string {
	var years, gaps []float64
	for _, gp := range national {
		if gp.Gap == nil {
			continue
		}
		years = append(years, float64(gp.Period))
		gaps = append(gaps, *gp.Gap)
	}
	if len(years) == 0 {
		return ""
	}

	p := NewPlot(
		WithTitle("National expense vs income growth gap"),
		WithXlabel("Year"),
		WithYlabel("Expense growth minus income growth"),
		WithLegend(false),
		WithSize(960, 540),
	)
	p.AddLine("gap", years, gaps, "firebrick")

	path := filepath.Join(dir, "gap_trend.html")
	p.Save(path)
	return path
}

// RenderMigrationRentScatter plots net migration inflow against rent change,
// one trace per geography so outlier metros stay identifiable.
// Returns the written file path, or "" when there is nothing to plot.
func RenderMigrationRentScatter(samples []schema.CorrelationSample, dir string) string {
	byGeo := make(map[string][]schema.CorrelationSample)
	for _, s := range samples {
		byGeo[s.GeoCode] = append(byGeo[s.GeoCode], s)
	}
	geos := make([]string, 0, len(byGeo))
	for geo := range byGeo {
		geos = append(geos, geo)
	}
	if len(geos) == 0 {
		return ""
	}
	sort.Strings(geos)

	p := NewPlot(
		WithTitle("Net migration inflow vs rent change"),
		WithXlabel("Net inflow"),
		WithYlabel("Rent change"),
		WithLegend(true),
		WithSize(960, 720),
	)
	for i, geo := range geos {
		var x, y []float64
		for _, s := range byGeo[geo] {
			x = append(x, s.NetInflow)
			y = append(y, s.RentDelta)
		}
		p.AddMarkers(geo, x, y, traceColors[i%len(traceColors)])
	}

	path := filepath.Join(dir, "migration_rent.html")
	p.Save(path)
	return path
}

var traceColors = []string{
	"steelblue", "firebrick", "seagreen", "darkorange", "mediumpurple",
	"goldenrod", "teal", "crimson", "slategray", "olivedrab",
}

// RenderAll renders every chart and returns the written paths.
func RenderAll(derived *schema.DerivedResult, dir string) []string {
	var paths []string
	if p := RenderGapTrend(derived.NationalGaps, dir); p != "" {
		paths = append(paths, p)
	}
	if p := RenderMigrationRentScatter(derived.Samples, dir); p != "" {
		paths = append(paths, p)
	}
	return paths
}
