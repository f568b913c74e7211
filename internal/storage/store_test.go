package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/sortlab/internal/metrics"
	"github.com/san-kum/sortlab/internal/trace"
)

func traceOf(t *testing.T, input []int) *trace.Result {
	t.Helper()
	gen := trace.New()
	for _, m := range metrics.Default() {
		gen.AddMetric(m)
	}
	res, err := gen.Trace(context.Background(), input)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	return res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := traceOf(t, []int{3, 1, 2})
	runID, err := st.Save(result, 250*time.Millisecond)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(meta.Input, []int{3, 1, 2}) {
		t.Errorf("expected input [3 1 2], got %v", meta.Input)
	}
	if !reflect.DeepEqual(meta.Sorted, []int{1, 2, 3}) {
		t.Errorf("expected sorted [1 2 3], got %v", meta.Sorted)
	}
	if meta.DelayMs != 250 {
		t.Errorf("expected delay 250, got %d", meta.DelayMs)
	}
	if meta.Events != 9 {
		t.Errorf("expected 9 events, got %d", meta.Events)
	}
	if meta.Metrics["shifts"] != 2 {
		t.Errorf("expected 2 shifts, got %f", meta.Metrics["shifts"])
	}

	events, err := st.LoadEvents(runID)
	if err != nil {
		t.Fatalf("load events failed: %v", err)
	}
	if !reflect.DeepEqual(events, result.Events) {
		t.Errorf("events did not survive the round trip:\n got %+v\nwant %+v", events, result.Events)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(traceOf(t, []int{2, 1}), 0); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(traceOf(t, []int{1}), 0); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Timestamp.After(runs[1].Timestamp) {
		t.Error("expected runs in chronological order")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(traceOf(t, nil), 0)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "trace.csv")); os.IsNotExist(err) {
		t.Error("trace.csv not created")
	}

	events, err := st.LoadEvents(runID)
	if err != nil {
		t.Fatalf("load events failed: %v", err)
	}
	if len(events) != 1 || !events[0].Terminal() || len(events[0].Values) != 0 {
		t.Errorf("expected a single empty terminal event, got %+v", events)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("run_missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadEvents("run_missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreSaveEmptyTrace(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save(&trace.Result{}, 0); err == nil {
		t.Error("expected error for empty trace")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(traceOf(t, []int{2, 1}), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.ID != runID {
		t.Errorf("expected id %s, got %s", runID, data.ID)
	}
	if len(data.Trace) != data.Events {
		t.Errorf("expected %d trace entries, got %d", data.Events, len(data.Trace))
	}
	if data.Trace[2].Step != trace.ShiftPerformed {
		t.Errorf("expected shift at ordinal 2, got %s", data.Trace[2].Step)
	}
}

func TestStoreBackToBackSavesGetDistinctRuns(t *testing.T) {
	st := New(t.TempDir())
	result := traceOf(t, []int{2, 1})

	ids := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := st.Save(result, 0)
		if err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		if ids[id] {
			t.Fatalf("duplicate run id %s", id)
		}
		ids[id] = true
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 20 {
		t.Errorf("expected 20 runs, got %d", len(runs))
	}
}

func TestStoreSaveRefusesExistingRun(t *testing.T) {
	st := New(t.TempDir())
	st.newID = func() string { return "run_fixed" }

	first := traceOf(t, []int{3, 1, 2})
	if _, err := st.Save(first, 0); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	_, err := st.Save(traceOf(t, []int{9}), 0)
	if !errors.Is(err, ErrRunExists) {
		t.Fatalf("expected ErrRunExists, got %v", err)
	}

	meta, err := st.Load("run_fixed")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(meta.Input, []int{3, 1, 2}) {
		t.Errorf("first run was overwritten: input %v", meta.Input)
	}
}
