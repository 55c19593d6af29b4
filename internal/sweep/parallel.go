package sweep

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-chromatin/internal/chromatin"
	"github.com/inodb/vibe-chromatin/internal/sampler"
)

// WorkItem is one replicate build waiting to run.
type WorkItem struct {
	Seq       int
	Replicate int
	Seed      uint64
	Config    chromatin.Config
}

// WorkResult holds the snapshot built for a single work item.
type WorkResult struct {
	Seq      int
	Item     WorkItem
	Snapshot *chromatin.Snapshot
	Err      error
}

// ParallelBuild builds work items using a pool of workers.
// Each item gets a fresh sampler seeded from the item, so results do not
// depend on which worker ran them. Results arrive in completion order;
// use OrderedCollect to consume them in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (r *Runner) ParallelBuild(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				b := chromatin.NewBuilder(sampler.New(item.Seed))
				b.SetLogger(r.logger)
				snap, err := b.Build(item.Config)
				results <- WorkResult{
					Seq:      item.Seq,
					Item:     item,
					Snapshot: snap,
					Err:      err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until their turn.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
