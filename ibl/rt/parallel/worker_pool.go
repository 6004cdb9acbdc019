// Package parallel spreads independent per-row work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// RowTask is one unit of work: a contiguous range of rows [Start, End).
type RowTask struct {
	Start  int
	End    int
	TaskID int
}

// WorkerPool runs row tasks on a fixed set of workers. Tasks must write to
// disjoint outputs; the pool does no locking on their behalf. Rows may be
// called from several goroutines at once.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a pool with the given number of workers
// (runtime.NumCPU() when workers <= 0).
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Rows calls fn once for every row in [0, rows) and returns when all calls
// have finished.
func (wp *WorkerPool) Rows(rows int, fn func(row int)) {
	if rows <= 0 {
		return
	}

	workers := wp.numWorkers
	if workers > rows {
		workers = rows
	}
	if workers == 1 {
		for r := 0; r < rows; r++ {
			fn(r)
		}
		return
	}

	// about four tasks per worker
	chunk := rows / (workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	taskQueue := make(chan RowTask, (rows+chunk-1)/chunk)
	for id, start := 0, 0; start < rows; id, start = id+1, start+chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		taskQueue <- RowTask{Start: start, End: end, TaskID: id}
	}
	close(taskQueue) // No more tasks

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go run(taskQueue, fn, &wg)
	}
	wg.Wait()
}

// run is the main worker loop
func run(taskQueue <-chan RowTask, fn func(row int), wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range taskQueue {
		for r := task.Start; r < task.End; r++ {
			fn(r)
		}
	}
}
