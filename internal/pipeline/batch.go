package pipeline

import (
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// Job is one scene pair queued for batch analysis.
type Job struct {
	ID      string
	Radar   *raster.Scene
	Optical *raster.Scene
}

// BatchResult pairs a job ID with its analysis outcome.
type BatchResult struct {
	ID     string
	Result *Result
}

const batchWorkers = 8

// RunBatch analyzes jobs concurrently and returns results keyed by job
// ID. The first failing job aborts the batch; remaining jobs may still
// be in flight but their results are discarded.
func (p *Pipeline) RunBatch(jobs []Job) (map[string]*Result, error) {
	if len(jobs) == 0 {
		return nil, raster.NewInputError("no jobs to analyze")
	}

	var (
		mu          sync.Mutex
		results     = make(map[string]*Result, len(jobs))
		progressBar = progressbar.Default(int64(len(jobs)), "Analyzing scenes")
	)

	wp := workerpool.New(batchWorkers)
	errChan := make(chan error, 1)
	var stopProcessing sync.Once

	for _, job := range jobs {
		j := job
		wp.Submit(func() {
			result, err := p.Run(j.Radar, j.Optical)
			if err != nil {
				stopProcessing.Do(func() { errChan <- fmt.Errorf("job %s: %w", j.ID, err) })
				return
			}

			mu.Lock()
			results[j.ID] = result
			progressBar.Add(1)
			mu.Unlock()
		})
	}

	go func() {
		wp.StopWait()
		close(errChan)
	}()

	if err := <-errChan; err != nil {
		return nil, err
	}
	return results, nil
}
