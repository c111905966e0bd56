package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dynpoly/internal/assembly"
	"github.com/san-kum/dynpoly/internal/sim"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "runs", "dynpoly.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Step: 0, Monomers: 4, Free: 4, ATP: 4},
			{Step: 10, Time: 0.01, Monomers: 4, Free: 1, Polymerized: 3, Chains: 1, MeanChain: 3, MaxChain: 3,
				ATP: 2, ADPPi: 1, ADP: 1, BondEnergy: 0.25, KineticEnergy: 1.5,
				Totals: assembly.PassStats{Bound: 3, Unbound: 1, Dissolved: 0, Transitions: 2}},
		},
		Metrics:    map[string]float64{"polymer_fraction": 0.375},
		StepsTaken: 10,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	result := testResult()

	meta := RunMetadata{
		Name: "actin/nucleation", Seed: 42, Dt: 0.001, Steps: 10,
		Integrator: "brownian", Species: []string{"factin", "formin"}, Config: "steps: 10\n",
	}
	runID, err := st.Save(ctx, meta, result)
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	assert.NoError(t, err, "run id should be a uuid")

	got, err := st.Load(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "actin/nucleation", got.Name)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, []string{"factin", "formin"}, got.Species)
	assert.Equal(t, 0.375, got.Metrics["polymer_fraction"])
	assert.Equal(t, "steps: 10\n", got.Config)
	assert.WithinDuration(t, time.Now(), got.Timestamp, time.Minute)

	samples, err := st.LoadSamples(ctx, runID)
	require.NoError(t, err)
	if diff := cmp.Diff(result.Samples, samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreKeepsGivenID(t *testing.T) {
	st := openStore(t)
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := st.Save(context.Background(), RunMetadata{ID: "fixed", Timestamp: ts}, testResult())
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)

	got, err := st.Load(context.Background(), "fixed")
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.Timestamp))

	_, err = st.Save(context.Background(), RunMetadata{ID: "fixed"}, testResult())
	assert.Error(t, err, "duplicate id")
	samples, err := st.LoadSamples(context.Background(), "fixed")
	require.NoError(t, err)
	assert.Len(t, samples, 2, "failed save must roll back")
}

func TestStoreList(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	runs, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "new"} {
		_, err := st.Save(ctx, RunMetadata{Name: name, Timestamp: base.Add(time.Duration(i) * time.Hour)}, testResult())
		require.NoError(t, err)
	}

	runs, err = st.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].Name)
	assert.Equal(t, "old", runs[1].Name)
}

func TestStoreNotFound(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	_, err := st.Load(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	_, err = st.LoadSamples(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.True(t, errors.Is(st.ExportCSV(ctx, &bytes.Buffer{}, "missing"), ErrRunNotFound))
	assert.True(t, errors.Is(st.Delete(ctx, "missing"), ErrRunNotFound))
}

func TestStoreDelete(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	id, err := st.Save(ctx, RunMetadata{Name: "gone"}, testResult())
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, id))

	_, err = st.Load(ctx, id)
	assert.True(t, errors.Is(err, ErrRunNotFound))
	var n int
	require.NoError(t, st.db.QueryRow(`SELECT COUNT(*) FROM samples WHERE run_id = ?`, id).Scan(&n))
	assert.Zero(t, n)
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dynpoly.db")
	st, err := Open(path, nil)
	require.NoError(t, err)
	id, err := st.Save(context.Background(), RunMetadata{Name: "persisted"}, testResult())
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path, nil)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}

func TestExportCSV(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	id, err := st.Save(ctx, RunMetadata{}, testResult())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(ctx, &buf, id))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "10", records[2][0])
	assert.Equal(t, "0.010000", records[2][1])
	assert.Equal(t, "3", records[2][7])
	assert.Equal(t, "2", records[2][16])
}

func TestExportJSON(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	id, err := st.Save(ctx, RunMetadata{Name: "json"}, testResult())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(ctx, &buf, id))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "json", data.Run.Name)
	assert.Len(t, data.Samples, 2)
	assert.Equal(t, 3, data.Samples[1].Totals.Bound)
}
