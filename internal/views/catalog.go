// Package views names the pre-computed JSON datasets published by the
// upstream acoustic-analysis pipeline and builds canonical requests for
// them. The payload schemas are owned by the pipeline; this package
// decodes only the fields the terminal renderers display and treats the
// rest as opaque.
package views

import "fmt"

// Known view names. Each maps to a JSON artifact under the content
// endpoint's views/ or processed/ prefix.
const (
	Stations           = "stations"
	DetectionsTimeline = "detections_timeline"
	AcousticSummary    = "acoustic_summary"
	IndexHeatmap       = "index_heatmap"
	CorrelationMatrix  = "correlation_matrix"
	PCAAnalysis        = "pca_analysis"
	ModelingAnalysis   = "modeling_analysis"
	IndicesReference   = "indices_reference"
)

// Descriptor describes one catalog entry.
type Descriptor struct {
	// Name is the view identifier used in requests and cache keys.
	Name string

	// Title is the human-readable name shown in listings.
	Title string

	// Prefix is the URL path prefix, "views" or "processed".
	Prefix string

	// Params lists the query parameters the view accepts.
	Params []string
}

// catalog is ordered for stable listings.
var catalog = []Descriptor{
	{Name: Stations, Title: "Station metadata", Prefix: "views"},
	{Name: DetectionsTimeline, Title: "Species detections timeline", Prefix: "views",
		Params: []string{"station", "year"}},
	{Name: AcousticSummary, Title: "Acoustic index summary", Prefix: "views",
		Params: []string{"station", "year", "bandwidth"}},
	{Name: IndexHeatmap, Title: "Acoustic index heatmap", Prefix: "processed",
		Params: []string{"station", "year", "index"}},
	{Name: CorrelationMatrix, Title: "Index correlation matrix", Prefix: "views",
		Params: []string{"threshold"}},
	{Name: PCAAnalysis, Title: "PCA analysis", Prefix: "views",
		Params: []string{"station", "bandwidth"}},
	{Name: ModelingAnalysis, Title: "Model performance", Prefix: "views"},
	{Name: IndicesReference, Title: "Indices reference", Prefix: "views"},
}

// Catalog returns the full view catalog in display order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the descriptor for name.
func Lookup(name string) (Descriptor, error) {
	for _, d := range catalog {
		if d.Name == name {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("unknown view %q", name)
}
