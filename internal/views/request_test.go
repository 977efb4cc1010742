package views_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acousticlab/soundview/internal/views"
)

func TestNewRequest_UnknownView(t *testing.T) {
	_, err := views.NewRequest("sea_surface_temperature", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown view")
}

func TestNewRequest_UnknownParam(t *testing.T) {
	_, err := views.NewRequest(views.CorrelationMatrix, map[string]string{"station": "MB01"})
	require.Error(t, err)

	var paramErr *views.UnknownParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "station", paramErr.Param)
}

func TestRequest_KeyDeterministic(t *testing.T) {
	tests := []struct {
		name   string
		view   string
		params map[string]string
		want   string
	}{
		{
			name: "no params",
			view: views.Stations,
			want: "stations",
		},
		{
			name:   "single param",
			view:   views.CorrelationMatrix,
			params: map[string]string{"threshold": "0.95"},
			want:   "correlation_matrix?threshold=0.95",
		},
		{
			name:   "params sorted",
			view:   views.AcousticSummary,
			params: map[string]string{"year": "2023", "station": "MB01", "bandwidth": "full"},
			want:   "acoustic_summary?bandwidth=full?station=MB01?year=2023",
		},
		{
			name:   "empty values dropped",
			view:   views.IndexHeatmap,
			params: map[string]string{"index": "ACI", "station": ""},
			want:   "index_heatmap?index=ACI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := views.NewRequest(tt.view, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Key())

			// Same inputs, same key: structural equality implies the
			// same cache entry.
			again, err := views.NewRequest(tt.view, tt.params)
			require.NoError(t, err)
			assert.Equal(t, req.Key(), again.Key())
		})
	}
}

func TestRequest_Path(t *testing.T) {
	req, err := views.NewRequest(views.CorrelationMatrix, map[string]string{"threshold": "0.95"})
	require.NoError(t, err)
	assert.Equal(t, "views/correlation_matrix.json?threshold=0.95", req.Path())

	bare, err := views.NewRequest(views.ModelingAnalysis, nil)
	require.NoError(t, err)
	assert.Equal(t, "views/modeling_analysis.json", bare.Path())

	processed, err := views.NewRequest(views.IndexHeatmap, map[string]string{"index": "ACI"})
	require.NoError(t, err)
	assert.Equal(t, "processed/index_heatmap.json?index=ACI", processed.Path())
}

func TestCatalog(t *testing.T) {
	catalog := views.Catalog()
	require.NotEmpty(t, catalog)

	seen := make(map[string]bool)
	for _, d := range catalog {
		assert.False(t, seen[d.Name], "duplicate view %s", d.Name)
		seen[d.Name] = true
		assert.Contains(t, []string{"views", "processed"}, d.Prefix)
	}

	d, err := views.Lookup(views.PCAAnalysis)
	require.NoError(t, err)
	assert.Equal(t, "PCA analysis", d.Title)
}
