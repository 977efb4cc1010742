package views

import "encoding/json"

// Typed envelopes for the payload fields the renderers display. All
// statistics are computed upstream; nothing here is recalculated, and
// unknown fields pass through untouched in the raw payload.

// CorrelationStatistics summarizes a correlation matrix view.
type CorrelationStatistics struct {
	TotalIndices     int     `json:"total_indices"`
	StrongPairs      int     `json:"strong_pairs"`
	MeanCorrelation  float64 `json:"mean_correlation"`
	AppliedThreshold float64 `json:"applied_threshold"`
}

// CorrelationMatrixView is the correlation_matrix payload.
type CorrelationMatrixView struct {
	Statistics CorrelationStatistics `json:"statistics"`
	Indices    []string              `json:"indices"`
	Matrix     [][]float64           `json:"matrix"`
}

// PCAComponent is one principal component of a PCA view.
type PCAComponent struct {
	Name                   string             `json:"name"`
	ExplainedVarianceRatio float64            `json:"explained_variance_ratio"`
	Loadings               map[string]float64 `json:"loadings"`
}

// PCAView is the pca_analysis payload.
type PCAView struct {
	Components       []PCAComponent `json:"components"`
	TotalVariance    float64        `json:"total_variance_explained"`
	SamplesAnalyzed  int            `json:"samples_analyzed"`
	FeaturesAnalyzed int            `json:"features_analyzed"`
}

// ModelMetrics holds performance numbers for one trained model.
type ModelMetrics struct {
	Model    string  `json:"model"`
	Accuracy float64 `json:"accuracy"`
	F1Score  float64 `json:"f1_score"`
	AUC      float64 `json:"auc"`
}

// ModelingView is the modeling_analysis payload.
type ModelingView struct {
	Models      []ModelMetrics `json:"models"`
	BestModel   string         `json:"best_model"`
	TargetLabel string         `json:"target_label"`
	SampleCount int            `json:"sample_count"`
}

// HeatmapView is the index_heatmap payload: one value per station/month
// cell for a single acoustic index.
type HeatmapView struct {
	Index    string      `json:"index"`
	Stations []string    `json:"stations"`
	Columns  []string    `json:"columns"`
	Values   [][]float64 `json:"values"`
}

// Station is one entry of the stations payload.
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DepthM    float64 `json:"depth_m"`
}

// StationsView is the stations payload.
type StationsView struct {
	Stations []Station `json:"stations"`
}

// IndexInfo is one entry of the indices_reference payload.
type IndexInfo struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// IndicesReferenceView is the indices_reference payload.
type IndicesReferenceView struct {
	Indices []IndexInfo `json:"indices"`
}

// Decode unmarshals a raw payload into the typed envelope for its view.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}
