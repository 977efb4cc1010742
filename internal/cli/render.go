package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/acousticlab/soundview/internal/views"
)

// Color palette for rendered views.
func catalogNameColor() lipgloss.Color { return lipgloss.Color("39") }
func mutedColor() lipgloss.Color       { return lipgloss.Color("240") }
func headerColor() lipgloss.Color      { return lipgloss.Color("213") }

// heatRamp maps a normalized [0,1] value onto a cold-to-hot color scale.
//
//nolint:gochecknoglobals // static palette
var heatRamp = []lipgloss.Color{
	lipgloss.Color("17"), lipgloss.Color("24"), lipgloss.Color("31"),
	lipgloss.Color("37"), lipgloss.Color("108"), lipgloss.Color("143"),
	lipgloss.Color("179"), lipgloss.Color("208"), lipgloss.Color("196"),
}

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // global printer is idiomatic for x/text/message usage
var printer = message.NewPrinter(language.English)

// terminalWidth returns the current terminal width, or a conservative
// default when stdout is not a terminal.
func terminalWidth() int {
	const fallback = 100
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fallback
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// renderView dispatches to the typed renderer for the request's view.
// Views without a dedicated renderer fall back to pretty-printed JSON.
func renderView(w io.Writer, req views.Request, data json.RawMessage) error {
	switch req.Name() {
	case views.CorrelationMatrix:
		return renderCorrelation(w, data)
	case views.PCAAnalysis:
		return renderPCA(w, data)
	case views.ModelingAnalysis:
		return renderModeling(w, data)
	case views.IndexHeatmap:
		return renderHeatmap(w, data)
	case views.Stations:
		return renderStations(w, data)
	case views.IndicesReference:
		return renderIndicesReference(w, data)
	default:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}

func renderHeader(w io.Writer, title string) error {
	style := lipgloss.NewStyle().Foreground(headerColor()).Bold(true)
	_, err := fmt.Fprintln(w, style.Render(title))
	return err
}

func renderCorrelation(w io.Writer, data json.RawMessage) error {
	view, err := views.Decode[views.CorrelationMatrixView](data)
	if err != nil {
		return err
	}

	if renderErr := renderHeader(w, "Index correlation matrix"); renderErr != nil {
		return renderErr
	}

	stats := view.Statistics
	lines := []string{
		printer.Sprintf("Indices analyzed:  %d", stats.TotalIndices),
		printer.Sprintf("Strong pairs:      %d", stats.StrongPairs),
		fmt.Sprintf("Mean correlation:  %.3f", stats.MeanCorrelation),
		fmt.Sprintf("Threshold applied: %.2f", stats.AppliedThreshold),
	}
	for _, line := range lines {
		if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
			return writeErr
		}
	}

	if len(view.Matrix) == 0 {
		return nil
	}
	if _, writeErr := fmt.Fprintln(w); writeErr != nil {
		return writeErr
	}
	return renderMatrixCells(w, view.Indices, view.Indices, view.Matrix, -1, 1)
}

func renderPCA(w io.Writer, data json.RawMessage) error {
	view, err := views.Decode[views.PCAView](data)
	if err != nil {
		return err
	}

	if renderErr := renderHeader(w, "PCA analysis"); renderErr != nil {
		return renderErr
	}

	if _, writeErr := fmt.Fprintln(w, printer.Sprintf(
		"%d samples, %d features, %.1f%% variance explained",
		view.SamplesAnalyzed, view.FeaturesAnalyzed, view.TotalVariance*100)); writeErr != nil {
		return writeErr
	}

	// Scree plot: one bar per component, scaled to the widest bar.
	const barWidth = 40
	barStyle := lipgloss.NewStyle().Foreground(catalogNameColor())
	for _, c := range view.Components {
		filled := int(c.ExplainedVarianceRatio * barWidth)
		if filled > barWidth {
			filled = barWidth
		}
		bar := barStyle.Render(strings.Repeat("█", filled)) +
			strings.Repeat("░", barWidth-filled)
		line := fmt.Sprintf("%-6s %s %5.1f%%", c.Name, bar, c.ExplainedVarianceRatio*100)
		if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

func renderModeling(w io.Writer, data json.RawMessage) error {
	view, err := views.Decode[views.ModelingView](data)
	if err != nil {
		return err
	}

	if renderErr := renderHeader(w, "Model performance"); renderErr != nil {
		return renderErr
	}

	if view.TargetLabel != "" {
		if _, writeErr := fmt.Fprintln(w, printer.Sprintf(
			"Target %s, %d samples", view.TargetLabel, view.SampleCount)); writeErr != nil {
			return writeErr
		}
	}

	header := fmt.Sprintf("%-24s %9s %9s %9s", "MODEL", "ACCURACY", "F1", "AUC")
	if _, writeErr := fmt.Fprintln(w, lipgloss.NewStyle().Foreground(mutedColor()).Render(header)); writeErr != nil {
		return writeErr
	}

	best := lipgloss.NewStyle().Bold(true)
	for _, m := range view.Models {
		line := fmt.Sprintf("%-24s %9.3f %9.3f %9.3f", m.Model, m.Accuracy, m.F1Score, m.AUC)
		if m.Model == view.BestModel {
			line = best.Render(line)
		}
		if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

func renderHeatmap(w io.Writer, data json.RawMessage) error {
	view, err := views.Decode[views.HeatmapView](data)
	if err != nil {
		return err
	}

	title := "Acoustic index heatmap"
	if view.Index != "" {
		title += ": " + view.Index
	}
	if renderErr := renderHeader(w, title); renderErr != nil {
		return renderErr
	}

	lo, hi := matrixRange(view.Values)
	return renderMatrixCells(w, view.Stations, view.Columns, view.Values, lo, hi)
}

// renderMatrixCells draws a grid of colored cells, one per value, with
// row labels on the left. Rows wider than the terminal are truncated.
func renderMatrixCells(w io.Writer, rowLabels, colLabels []string, values [][]float64, lo, hi float64) error {
	const labelWidth = 12
	maxCols := terminalWidth() - labelWidth - 1
	if maxCols < 1 {
		maxCols = 1
	}

	span := hi - lo
	for i, row := range values {
		label := ""
		if i < len(rowLabels) {
			label = rowLabels[i]
		}
		if len(label) > labelWidth {
			label = label[:labelWidth]
		}

		var b strings.Builder
		b.WriteString(fmt.Sprintf("%-*s ", labelWidth, label))
		for j, v := range row {
			if j >= maxCols {
				break
			}
			norm := 0.5
			if span > 0 {
				norm = (v - lo) / span
			}
			b.WriteString(heatCell(norm))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}

	if len(colLabels) > 0 {
		note := lipgloss.NewStyle().Foreground(mutedColor()).
			Render(printer.Sprintf("%d columns: %s … %s",
				len(colLabels), colLabels[0], colLabels[len(colLabels)-1]))
		if _, err := fmt.Fprintln(w, note); err != nil {
			return err
		}
	}
	return nil
}

// heatCell returns one colored cell for a normalized value in [0,1].
func heatCell(norm float64) string {
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	idx := int(norm * float64(len(heatRamp)-1))
	return lipgloss.NewStyle().Foreground(heatRamp[idx]).Render("■")
}

// matrixRange returns the min and max across all cells, defaulting to
// [0,1] for an empty matrix.
func matrixRange(values [][]float64) (float64, float64) {
	first := true
	lo, hi := 0.0, 1.0
	for _, row := range values {
		for _, v := range row {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

func renderStations(w io.Writer, data json.RawMessage) error {
	view, err := views.Decode[views.StationsView](data)
	if err != nil {
		return err
	}

	if renderErr := renderHeader(w, "Stations"); renderErr != nil {
		return renderErr
	}

	header := fmt.Sprintf("%-10s %-24s %10s %11s %8s", "ID", "NAME", "LAT", "LON", "DEPTH")
	if _, writeErr := fmt.Fprintln(w, lipgloss.NewStyle().Foreground(mutedColor()).Render(header)); writeErr != nil {
		return writeErr
	}
	for _, s := range view.Stations {
		line := fmt.Sprintf("%-10s %-24s %10.4f %11.4f %7.0fm",
			s.ID, s.Name, s.Latitude, s.Longitude, s.DepthM)
		if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

func renderIndicesReference(w io.Writer, data json.RawMessage) error {
	view, err := views.Decode[views.IndicesReferenceView](data)
	if err != nil {
		return err
	}

	if renderErr := renderHeader(w, "Acoustic indices reference"); renderErr != nil {
		return renderErr
	}

	nameStyle := lipgloss.NewStyle().Bold(true)
	catStyle := lipgloss.NewStyle().Foreground(mutedColor())
	for _, idx := range view.Indices {
		line := nameStyle.Render(fmt.Sprintf("%-8s", idx.Name)) +
			catStyle.Render(fmt.Sprintf(" [%s] ", idx.Category)) +
			idx.Description
		if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
			return writeErr
		}
	}
	return nil
}
