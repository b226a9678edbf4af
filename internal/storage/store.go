package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mbsim/internal/config"
	"github.com/san-kum/mbsim/internal/scenario"
	"github.com/san-kum/mbsim/internal/solver"
)

// maxWriters bounds the number of result files written at once.
const maxWriters = 4

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ResultInfo struct {
	Name       string `json:"name"`
	Observable string `json:"observable,omitempty"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Complex    bool   `json:"complex"`
	// First recorded gridpoint and the timestep stride between rows.
	Position int `json:"position"`
	Stride   int `json:"stride"`
}

type RunMetadata struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Solver        string        `json:"solver"`
	Timestamp     time.Time     `json:"timestamp"`
	Workers       int           `json:"workers"`
	Gridpoints    int           `json:"gridpoints"`
	Timesteps     int           `json:"timesteps"`
	GridpointSize float64       `json:"gridpoint_size"`
	TimestepSize  float64       `json:"timestep_size"`
	Endtime       float64       `json:"endtime"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	Results       []ResultInfo  `json:"results"`
}

// Metadata describes a finished run of s.
func Metadata(s *solver.Solver, elapsed time.Duration) RunMetadata {
	scn := s.Scenario()
	meta := RunMetadata{
		Name:          scn.Name,
		Solver:        s.Name(),
		Timestamp:     time.Now(),
		Workers:       s.Workers(),
		Gridpoints:    scn.NumGridpoints,
		Timesteps:     scn.NumTimesteps,
		GridpointSize: scn.GridpointSize,
		TimestepSize:  scn.TimestepSize,
		Endtime:       scn.EndTime,
		Elapsed:       elapsed,
	}
	records := make(map[string]scenario.Record, len(scn.Records))
	for _, rec := range scn.Records {
		records[rec.Name] = rec
	}
	for _, r := range s.Results() {
		info := ResultInfo{Name: r.Name, Rows: r.Rows, Cols: r.Cols, Complex: r.Complex, Stride: 1}
		if rec, ok := records[r.Name]; ok {
			info.Observable = rec.Observable.String()
			info.Position, _ = rec.Span(scn.GridpointSize, scn.NumGridpoints)
			info.Stride, _ = rec.Sampling(scn.TimestepSize, scn.NumTimesteps)
		}
		meta.Results = append(meta.Results, info)
	}
	return meta
}

// Result returns the stored description of the named result.
func (m *RunMetadata) Result(name string) (ResultInfo, bool) {
	for _, info := range m.Results {
		if info.Name == name {
			return info, true
		}
	}
	return ResultInfo{}, false
}

// Interval is the time between two rows of the result.
func (m *RunMetadata) Interval(info ResultInfo) float64 {
	return float64(info.Stride) * m.TimestepSize
}

// Save creates a run directory holding metadata.json, the configuration
// when given, and one CSV per result (plus <name>_imag.csv for complex
// results). It returns the run id.
func (s *Store) Save(meta RunMetadata, results []*solver.Result, cfg *config.Config) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if cfg != nil {
		if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
			return "", err
		}
	}

	var g errgroup.Group
	g.SetLimit(maxWriters)
	for _, r := range results {
		r := r
		g.Go(func() error {
			return writeMatrix(filepath.Join(runDir, r.Name+".csv"), r.Real, r.Rows, r.Cols)
		})
		if r.Complex {
			g.Go(func() error {
				return writeMatrix(filepath.Join(runDir, r.Name+"_imag.csv"), r.Imag, r.Rows, r.Cols)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, "config.yaml"))
}

// LoadResult reads one result of a run back.
func (s *Store) LoadResult(runID, name string) (*solver.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	info, ok := meta.Result(name)
	if !ok {
		return nil, fmt.Errorf("storage: run %s has no result %q", runID, name)
	}

	runDir := filepath.Join(s.baseDir, runID)
	r := &solver.Result{Name: info.Name, Rows: info.Rows, Cols: info.Cols, Complex: info.Complex}
	if r.Real, err = readMatrix(filepath.Join(runDir, name+".csv"), info.Rows, info.Cols); err != nil {
		return nil, err
	}
	if info.Complex {
		if r.Imag, err = readMatrix(filepath.Join(runDir, name+"_imag.csv"), info.Rows, info.Cols); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMatrix(path string, values []float64, rows, cols int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, values, rows, cols); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a row-major matrix, one line per row, at full precision.
func WriteCSV(out io.Writer, values []float64, rows, cols int) error {
	w := csv.NewWriter(out)
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(values[i*cols+j], 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readMatrix(path string, rows, cols int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = cols
	r.ReuseRecord = true

	values := make([]float64, 0, rows*cols)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("storage: %s: %w", filepath.Base(path), err)
		}
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s: %w", filepath.Base(path), err)
			}
			values = append(values, v)
		}
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("storage: %s: got %d values, want %d", filepath.Base(path), len(values), rows*cols)
	}
	return values, nil
}
