// Package batch runs many independent scenarios concurrently and summarizes
// their outcomes.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"fjacquet/levpartflip/internal/engine"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/models"
	"fjacquet/levpartflip/internal/scenario"
)

// Job is one independent run.
type Job struct {
	Name   string
	Params models.Params
	Energy []float64
}

// Result is the outcome of one job. Exactly one of Outcome and Err is set.
type Result struct {
	Index    int
	Name     string
	Outcome  *engine.Outcome
	Err      error
	Duration time.Duration
}

// Runner evaluates one parameter set. *engine.Engine satisfies it.
type Runner interface {
	Run(p models.Params, energy []float64) (*engine.Outcome, error)
}

// Sweeper runs jobs on a fixed pool of workers.
type Sweeper struct {
	logger  logging.Logger
	runner  Runner
	workers int
}

// NewSweeper creates a Sweeper. Workers below 1 default to the CPU count.
func NewSweeper(logger logging.Logger, runner Runner, workers int) *Sweeper {
	if logger == nil {
		logger = logging.Discard()
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Sweeper{logger: logger, runner: runner, workers: workers}
}

// Sweep runs every job and returns results in job order. Once ctx is done no
// further jobs start; those left get ctx.Err() as their error.
func (s *Sweeper) Sweep(ctx context.Context, jobs []Job) []Result {
	start := time.Now()
	results := make([]Result, len(jobs))

	workers := s.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 1 {
		s.sweepSequential(ctx, jobs, results)
	} else {
		s.sweepConcurrent(ctx, jobs, results, workers)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("Sweep completed",
		logging.F(logging.FieldCount, len(jobs)),
		logging.F(logging.FieldFailed, failed),
		logging.F(logging.FieldWorker, workers),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return results
}

func (s *Sweeper) sweepSequential(ctx context.Context, jobs []Job, results []Result) {
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			cancelFrom(jobs, results, i, err)
			return
		}
		results[i] = s.run(0, i, jobs[i])
	}
}

func (s *Sweeper) sweepConcurrent(ctx context.Context, jobs []Job, results []Result, workers int) {
	indices := make(chan int)

	// Each worker writes only the slots it receives, so results needs no lock.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range indices {
				results[i] = s.run(id, i, jobs[i])
			}
		}(w)
	}

dispatch:
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			cancelFrom(jobs, results, i, err)
			break
		}
		select {
		case indices <- i:
		case <-ctx.Done():
			cancelFrom(jobs, results, i, ctx.Err())
			break dispatch
		}
	}
	close(indices)
	wg.Wait()
}

func cancelFrom(jobs []Job, results []Result, from int, err error) {
	for i := from; i < len(jobs); i++ {
		results[i] = Result{Index: i, Name: jobs[i].Name, Err: err}
	}
}

func (s *Sweeper) run(worker, index int, job Job) Result {
	start := time.Now()
	out, err := s.runner.Run(job.Params, job.Energy)
	r := Result{Index: index, Name: job.Name, Outcome: out, Err: err, Duration: time.Since(start)}
	log := s.logger.WithFields(
		logging.F(logging.FieldScenario, job.Name),
		logging.F(logging.FieldWorker, worker))
	if err != nil {
		r.Outcome = nil
		log.WithError(err).Warn("Scenario failed")
		return r
	}
	log.Debug("Scenario completed",
		logging.F(logging.FieldPPAPrice, out.Price),
		logging.F(logging.FieldFlipYear, out.Flip.Year),
		logging.F(logging.FieldDuration, r.Duration.Milliseconds()))
	return r
}

// FromScenarios turns loaded scenarios into jobs.
func FromScenarios(scenarios []*scenario.Scenario) []Job {
	jobs := make([]Job, len(scenarios))
	for i, sc := range scenarios {
		jobs[i] = Job{Name: sc.Name, Params: sc.Params, Energy: sc.Energy}
	}
	return jobs
}

// Vary builds one job per value of key, each overriding base. Job names read
// name[key=value].
func Vary(name string, base map[string]float64, energy []float64, key string, values []float64) ([]Job, error) {
	jobs := make([]Job, 0, len(values))
	for _, v := range values {
		params := make(map[string]float64, len(base)+1)
		for k, x := range base {
			params[k] = x
		}
		params[key] = v

		p, err := scenario.FromMap(params)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", key, v, err)
		}
		jobs = append(jobs, Job{
			Name:   fmt.Sprintf("%s[%s=%g]", name, key, v),
			Params: p,
			Energy: energy,
		})
	}
	return jobs, nil
}
