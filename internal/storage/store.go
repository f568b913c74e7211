package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/trace"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrRunExists   = errors.New("run already exists")
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var csvHeader = []string{"ordinal", "id", "step", "phase", "outer", "key", "inner", "inner_next", "values"}

type Store struct {
	baseDir string
	newID   func() string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, newID: newRunID}
}

// newRunID is time ordered for humans; the uuid suffix keeps ids unique when
// the clock is coarse.
func newRunID() string {
	return fmt.Sprintf("run_%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Input     []int              `json:"input"`
	DelayMs   int64              `json:"delay_ms"`
	Events    int                `json:"events"`
	Sorted    []int              `json:"sorted"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a finished trace to its own run directory and returns the run id.
func (s *Store) Save(result *trace.Result, delay time.Duration) (string, error) {
	if len(result.Events) == 0 {
		return "", fmt.Errorf("empty trace")
	}

	if err := s.Init(); err != nil {
		return "", err
	}
	runID := s.newID()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.Mkdir(runDir, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrRunExists, runID)
		}
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Input:     result.Input,
		DelayMs:   delay.Milliseconds(),
		Events:    len(result.Events),
		Sorted:    result.Final().Values,
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeTrace(filepath.Join(runDir, traceFile), result.Events); err != nil {
		return "", err
	}
	return runID, nil
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

func writeTrace(path string, events []trace.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range events {
		if err := w.Write(EventRecord(e)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// EventRecord is the csv row of one event.
func EventRecord(e trace.Event) []string {
	return []string{
		strconv.Itoa(e.Ordinal),
		e.ID,
		e.Step.String(),
		string(e.Phase),
		strconv.Itoa(e.Outer),
		strconv.Itoa(e.Key),
		strconv.Itoa(e.Inner),
		strconv.Itoa(e.InnerNext),
		input.FormatNumbers(e.Values),
	}
}

// CSVHeader returns the column names matching EventRecord.
func CSVHeader() []string {
	return append([]string(nil), csvHeader...)
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadEvents(runID string) ([]trace.Event, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []trace.Event{}, nil
	}

	events := make([]trace.Event, 0, len(records)-1)
	for i, record := range records[1:] {
		e, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func parseRecord(record []string) (trace.Event, error) {
	var e trace.Event
	ints := make([]int, 0, 5)
	for _, idx := range []int{0, 4, 5, 6, 7} {
		v, err := strconv.Atoi(record[idx])
		if err != nil {
			return e, err
		}
		ints = append(ints, v)
	}

	step, ok := trace.ParseStepKind(record[2])
	if !ok {
		return e, fmt.Errorf("unknown step %q", record[2])
	}

	e = trace.Event{
		Ordinal:   ints[0],
		ID:        record[1],
		Step:      step,
		Phase:     trace.Phase(record[3]),
		Outer:     ints[1],
		Key:       ints[2],
		Inner:     ints[3],
		InnerNext: ints[4],
		Values:    input.ParseNumbers(record[8]),
	}
	return e, nil
}
