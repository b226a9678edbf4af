package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mbsim/internal/solver"
)

type ExportResult struct {
	Name string      `json:"name"`
	Real [][]float64 `json:"real"`
	Imag [][]float64 `json:"imag,omitempty"`
}

type ExportData struct {
	Meta    RunMetadata    `json:"meta"`
	Results []ExportResult `json:"results"`
}

func rowsOf(values []float64, rows, cols int) [][]float64 {
	if values == nil {
		return nil
	}
	out := make([][]float64, rows)
	for i := range out {
		out[i] = values[i*cols : (i+1)*cols]
	}
	return out
}

// ExportJSON writes the metadata and every result as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, results []*solver.Result) error {
	data := ExportData{Meta: meta, Results: make([]ExportResult, len(results))}
	for i, r := range results {
		data.Results[i] = ExportResult{
			Name: r.Name,
			Real: rowsOf(r.Real, r.Rows, r.Cols),
			Imag: rowsOf(r.Imag, r.Rows, r.Cols),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, meta RunMetadata, results []*solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ExportJSON(file, meta, results); err != nil {
		return err
	}
	return file.Close()
}
