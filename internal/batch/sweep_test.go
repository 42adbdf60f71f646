package batch

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/levpartflip/internal/common"
	"fjacquet/levpartflip/internal/engine"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/modelerror"
	"fjacquet/levpartflip/internal/models"
	"fjacquet/levpartflip/internal/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner echoes the nameplate back as the price. Larger nameplates
// finish sooner so completion order differs from job order.
type fakeRunner struct {
	mu      sync.Mutex
	active  int32
	maxSeen int32
	calls   []float64
}

var errBoom = errors.New("boom")

func (f *fakeRunner) Run(p models.Params, _ []float64) (*engine.Outcome, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)

	f.mu.Lock()
	if n > f.maxSeen {
		f.maxSeen = n
	}
	f.calls = append(f.calls, p.Nameplate)
	f.mu.Unlock()

	time.Sleep(time.Duration(10-int(p.Nameplate)) * time.Millisecond)
	if p.Nameplate == 3 {
		return nil, errBoom
	}
	return &engine.Outcome{Price: p.Nameplate}, nil
}

func fakeJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Name: string(rune('a' + i)), Params: models.Params{Nameplate: float64(i)}}
	}
	return jobs
}

func TestSweep_PreservesOrder(t *testing.T) {
	runner := &fakeRunner{}
	logger := logging.NewMockLogger()
	results := NewSweeper(logger, runner, 4).Sweep(context.Background(), fakeJobs(8))

	require.Len(t, results, 8)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, string(rune('a'+i)), r.Name)
		if i == 3 {
			assert.ErrorIs(t, r.Err, errBoom)
			assert.Nil(t, r.Outcome)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, float64(i), r.Outcome.Price)
	}
	assert.Len(t, runner.calls, 8)
	assert.LessOrEqual(t, runner.maxSeen, int32(4))
	assert.True(t, logger.HasEntry("WARN", "Scenario failed"))
	assert.True(t, logger.HasEntry("INFO", "Sweep completed"))

	for _, e := range logger.GetEntriesByLevel("INFO") {
		if e.Message != "Sweep completed" {
			continue
		}
		failed, ok := e.Field(logging.FieldFailed)
		require.True(t, ok)
		assert.Equal(t, 1, failed)
	}
}

func TestSweep_Sequential(t *testing.T) {
	runner := &fakeRunner{}
	results := NewSweeper(nil, runner, 1).Sweep(context.Background(), fakeJobs(3))

	assert.Equal(t, []float64{0, 1, 2}, runner.calls)
	assert.Equal(t, int32(1), runner.maxSeen)
	assert.Equal(t, 2.0, results[2].Outcome.Price)
}

func TestSweep_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		runner := &fakeRunner{}
		results := NewSweeper(nil, runner, workers).Sweep(ctx, fakeJobs(5))
		require.Len(t, results, 5)
		for i, r := range results {
			assert.Equal(t, i, r.Index)
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
		assert.Empty(t, runner.calls)
	}
}

func TestSweep_Empty(t *testing.T) {
	assert.Empty(t, NewSweeper(nil, &fakeRunner{}, 4).Sweep(context.Background(), nil))
}

func referenceEnergy() []float64 {
	energy := make([]float64, 30)
	for i := range energy {
		energy[i] = 21_900_000
	}
	return energy
}

func TestVary(t *testing.T) {
	base := map[string]float64{"system_nameplate": 10_000, "ppa_soln_mode": scenario.SpecifiedMode}
	jobs, err := Vary("ref", base, referenceEnergy(), "ppa_price", []float64{8, 12.5})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "ref[ppa_price=8]", jobs[0].Name)
	assert.Equal(t, "ref[ppa_price=12.5]", jobs[1].Name)
	assert.Equal(t, models.PPASpecified{Price: 12.5}, jobs[1].Params.PPA)
	assert.NotContains(t, base, "ppa_price")

	_, err = Vary("ref", base, nil, "term_tenor", []float64{2.5})
	assert.ErrorIs(t, err, modelerror.ErrDegenerateInput)
}

func TestSummarize_WithEngine(t *testing.T) {
	base := map[string]float64{"system_nameplate": 10_000, "ppa_soln_mode": scenario.SpecifiedMode}
	jobs, err := Vary("ref", base, referenceEnergy(), "ppa_price", []float64{0, 6, 30})
	require.NoError(t, err)

	results := NewSweeper(nil, engine.New(nil), 3).Sweep(context.Background(), jobs)
	logger := logging.NewMockLogger()
	records := NewAggregator(logger).Summarize(results)
	require.Len(t, records, 3)

	assert.Equal(t, StatusFailed, records[0].Status)
	assert.Contains(t, records[0].Error, modelerror.ErrDebtInfeasible.Error())
	assert.Equal(t, StatusNoFlip, records[1].Status)
	assert.Equal(t, StatusOK, records[2].Status)
	assert.Equal(t, 30.0, records[2].PPAPrice)
	assert.Greater(t, records[2].FlipYear, 0)
	assert.InDelta(t, 1.5, records[2].MinDSCR, 1e-6)

	entries := logger.GetEntriesByLevel("INFO")
	require.Len(t, entries, 1)
	failed, ok := entries[0].Field(StatusFailed)
	require.True(t, ok)
	assert.Equal(t, 1, failed)

	var buf bytes.Buffer
	require.NoError(t, common.WriteCSV(&buf, records))
	assert.Contains(t, buf.String(), "scenario,status,ppa_price,flip_year")
	assert.Contains(t, buf.String(), "ref[ppa_price=30],ok,30,")
}
