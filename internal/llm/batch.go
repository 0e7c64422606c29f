package llm

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// batcher partitions batch input into fixed-size chunks and spaces them with
// an adaptive delay: the delay shrinks after a clean chunk and multiplies on
// a detected rate-limit signal, capped at a maximum. Both backends share it;
// only chunk size, concurrency and delays differ.
type batcher struct {
	chunkSize   int
	concurrency int
	baseDelay   time.Duration
	maxDelay    time.Duration

	mu    sync.Mutex
	delay time.Duration
}

func newBatcher(chunkSize, concurrency int, baseDelay, maxDelay time.Duration) *batcher {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &batcher{
		chunkSize:   chunkSize,
		concurrency: concurrency,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		delay:       baseDelay,
	}
}

// run analyzes every input through analyze, chunk by chunk. Chunks are
// processed in input order; emails within a chunk may run concurrently up to
// the configured bound. Every input id gets exactly one result; a failed
// analysis degrades that id only.
func (b *batcher) run(ctx context.Context, contents []*EmailContent, analyze func(context.Context, *EmailContent) (*EmailAnalysis, error)) map[string]*EmailAnalysis {
	results := make(map[string]*EmailAnalysis, len(contents))

	for start := 0; start < len(contents); start += b.chunkSize {
		end := start + b.chunkSize
		if end > len(contents) {
			end = len(contents)
		}
		chunk := contents[start:end]

		if start > 0 {
			if !b.sleep(ctx) {
				// Cancelled mid-batch: degrade the rest, never return a
				// partial map
				for i, content := range contents[start:] {
					results[keyFor(content, start+i)] = degraded(ctx.Err())
				}
				return results
			}
		}

		analyses := make([]*EmailAnalysis, len(chunk))
		errs := make([]error, len(chunk))

		g := &errgroup.Group{}
		g.SetLimit(b.concurrency)
		for i, content := range chunk {
			i, content := i, content
			g.Go(func() error {
				analysis, err := analyze(ctx, content)
				if err != nil {
					errs[i] = err
					analyses[i] = degraded(err)
					return nil
				}
				analyses[i] = analysis
				return nil
			})
		}
		g.Wait()

		rateLimited := false
		for i, content := range chunk {
			results[keyFor(content, start+i)] = analyses[i]
			if isRateLimitSignal(errs[i]) {
				rateLimited = true
			}
		}

		b.adjust(rateLimited)
	}

	return results
}

// sleep waits the current inter-chunk delay, honoring cancellation
func (b *batcher) sleep(ctx context.Context) bool {
	b.mu.Lock()
	delay := b.delay
	b.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// adjust adapts the delay: double on rate limiting (capped), decay toward
// the base on success
func (b *batcher) adjust(rateLimited bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if rateLimited {
		b.delay *= 2
		if b.delay > b.maxDelay {
			b.delay = b.maxDelay
		}
		log.Printf("llm batch: rate limited, inter-chunk delay now %v", b.delay)
		return
	}

	b.delay = b.delay * 4 / 5
	if b.delay < b.baseDelay {
		b.delay = b.baseDelay
	}
}

// keyFor returns the result key for a content entry, falling back to the
// batch position when the caller supplied no id
func keyFor(content *EmailContent, index int) string {
	if content.ID != "" {
		return content.ID
	}
	return strconv.Itoa(index)
}
