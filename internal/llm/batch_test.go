package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContents(n int) []*EmailContent {
	contents := make([]*EmailContent, n)
	for i := range contents {
		contents[i] = &EmailContent{ID: fmt.Sprintf("email-%d", i)}
	}
	return contents
}

func TestBatcherEveryInputGetsAResult(t *testing.T) {
	b := newBatcher(3, 2, time.Millisecond, 10*time.Millisecond)
	contents := testContents(8)

	results := b.run(context.Background(), contents, func(ctx context.Context, c *EmailContent) (*EmailAnalysis, error) {
		return &EmailAnalysis{IsOrder: true}, nil
	})

	require.Len(t, results, 8)
	for _, c := range contents {
		assert.Contains(t, results, c.ID)
	}
}

func TestBatcherSingleFailureDegradesOnlyItself(t *testing.T) {
	b := newBatcher(3, 2, time.Millisecond, 10*time.Millisecond)
	contents := testContents(5)

	results := b.run(context.Background(), contents, func(ctx context.Context, c *EmailContent) (*EmailAnalysis, error) {
		if c.ID == "email-2" {
			return nil, errors.New("backend exploded")
		}
		return &EmailAnalysis{IsOrder: true}, nil
	})

	require.Len(t, results, 5)
	assert.False(t, results["email-2"].IsOrder)
	assert.NotNil(t, results["email-2"].DebugInfo)
	assert.True(t, results["email-0"].IsOrder)
	assert.True(t, results["email-4"].IsOrder)
}

func TestBatcherChunking(t *testing.T) {
	b := newBatcher(3, 1, time.Millisecond, 10*time.Millisecond)
	contents := testContents(7)

	var mu sync.Mutex
	var seen []string
	results := b.run(context.Background(), contents, func(ctx context.Context, c *EmailContent) (*EmailAnalysis, error) {
		mu.Lock()
		seen = append(seen, c.ID)
		mu.Unlock()
		return &EmailAnalysis{}, nil
	})

	assert.Len(t, results, 7)
	// Sequential concurrency preserves input order across and within chunks
	expected := make([]string, 7)
	for i := range expected {
		expected[i] = fmt.Sprintf("email-%d", i)
	}
	assert.Equal(t, expected, seen)
}

func TestBatcherDelayDoublesOnRateLimit(t *testing.T) {
	b := newBatcher(1, 1, 10*time.Millisecond, 80*time.Millisecond)
	contents := testContents(4)

	b.run(context.Background(), contents, func(ctx context.Context, c *EmailContent) (*EmailAnalysis, error) {
		return nil, ErrRateLimited
	})

	// 10ms doubled three more times would be 160ms; the cap holds it at 80ms
	b.mu.Lock()
	delay := b.delay
	b.mu.Unlock()
	assert.Equal(t, 80*time.Millisecond, delay)
}

func TestBatcherDelayDecaysAfterSuccess(t *testing.T) {
	b := newBatcher(1, 1, 10*time.Millisecond, 80*time.Millisecond)
	b.delay = 80 * time.Millisecond

	b.adjust(false)
	assert.Equal(t, 64*time.Millisecond, b.delay)

	// Decay never undershoots the base delay
	for i := 0; i < 20; i++ {
		b.adjust(false)
	}
	assert.Equal(t, 10*time.Millisecond, b.delay)
}

func TestBatcherCancellationDegradesRemainder(t *testing.T) {
	b := newBatcher(1, 1, 50*time.Millisecond, time.Second)
	contents := testContents(4)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	results := b.run(ctx, contents, func(ctx context.Context, c *EmailContent) (*EmailAnalysis, error) {
		calls++
		cancel()
		return &EmailAnalysis{IsOrder: true}, nil
	})

	// The first chunk completes, the cancelled sleep degrades the rest
	require.Len(t, results, 4)
	assert.Equal(t, 1, calls)
	assert.True(t, results["email-0"].IsOrder)
	for _, id := range []string{"email-1", "email-2", "email-3"} {
		assert.False(t, results[id].IsOrder, "id %s", id)
		assert.NotNil(t, results[id].DebugInfo, "id %s", id)
	}
}

func TestKeyForFallsBackToIndex(t *testing.T) {
	assert.Equal(t, "msg-1", keyFor(&EmailContent{ID: "msg-1"}, 7))
	assert.Equal(t, "7", keyFor(&EmailContent{}, 7))
}

func TestBatcherMinimums(t *testing.T) {
	b := newBatcher(0, 0, time.Millisecond, time.Millisecond)
	assert.Equal(t, 1, b.chunkSize)
	assert.Equal(t, 1, b.concurrency)
}
