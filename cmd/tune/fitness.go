package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/field"
	"github.com/pthm-cable/msa3d/shapes"
	"github.com/pthm-cable/msa3d/telemetry"
)

// A run counts as settled once the mean target distance stays under this
// many pixels.
const settleDistance = 2.0

// Fitness weights.
const (
	weightSettle = 1.0
	weightDist   = 0.5
	weightSpeed  = 0.25
)

// runResult holds the outcome of one field run.
type runResult struct {
	settleTicks int32   // first tick the field settled, or maxTicks
	finalDist   float64 // mean target distance at the end
	finalSpeed  float64 // p90 particle speed at the end
}

// FitnessEvaluator runs field simulations for every seed and shape and scores
// how quickly and cleanly particles settle onto the shape.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	shapes     []string
	baseConfig *config.Config

	mu   sync.Mutex
	last runResult // averaged over the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, shapeNames []string, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		shapes:     shapeNames,
		baseConfig: baseCfg,
	}
}

// Last returns the averaged run result of the most recent evaluation.
func (fe *FitnessEvaluator) Last() runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	type job struct {
		seed  int64
		shape string
	}
	var jobs []job
	for _, s := range fe.seeds {
		for _, sh := range fe.shapes {
			jobs = append(jobs, job{s, sh})
		}
	}

	results := make([]runResult, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runField(&cfg, j.seed, j.shape)
		}()
	}
	wg.Wait()

	settle := make([]float64, len(results))
	dist := make([]float64, len(results))
	speed := make([]float64, len(results))
	for i, r := range results {
		settle[i] = float64(r.settleTicks)
		dist[i] = r.finalDist
		speed[i] = r.finalSpeed
	}
	avg := runResult{
		settleTicks: int32(stat.Mean(settle, nil)),
		finalDist:   stat.Mean(dist, nil),
		finalSpeed:  stat.Mean(speed, nil),
	}

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return computeFitness(avg, fe.maxTicks)
}

// runField runs one headless field from scatter to maxTicks.
func (fe *FitnessEvaluator) runField(cfg *config.Config, seed int64, shape string) runResult {
	f := field.New(cfg.Field, rand.New(rand.NewSource(seed)))
	f.Reset(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32)
	f.AssignTargets(shapes.Generate(shape, cfg.Shape.PointCount))

	result := runResult{settleTicks: fe.maxTicks}
	var particles []field.Particle
	var sample telemetry.FieldSample

	for tick := int32(1); tick <= fe.maxTicks; tick++ {
		f.Step()

		particles = f.Snapshot(particles)
		sample = telemetry.SampleField(particles, f.Generation(), &sample)
		d := meanOrZero(sample.TargetDist)

		if d < settleDistance {
			if result.settleTicks == fe.maxTicks {
				result.settleTicks = tick
			}
		} else {
			result.settleTicks = fe.maxTicks
		}
		result.finalDist = d
	}

	_, _, p90 := telemetry.ComputeSpeedStats(sample.Speeds)
	result.finalSpeed = p90
	return result
}

// computeFitness combines settle time, residual distance and residual speed.
// Non-finite inputs score as the worst possible run.
func computeFitness(r runResult, maxTicks int32) float64 {
	if math.IsNaN(r.finalDist) || math.IsInf(r.finalDist, 0) {
		return math.Inf(1)
	}
	settle := float64(r.settleTicks) / float64(maxTicks)
	dist := r.finalDist / settleDistance
	return weightSettle*settle + weightDist*dist + weightSpeed*r.finalSpeed
}

func meanOrZero(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}
