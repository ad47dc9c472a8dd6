package future_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChuLiYu/taskpool/future"
	"github.com/ChuLiYu/taskpool/pool"
)

// TestMapSingleStep covers the basic continuation case: predecessor not yet
// finished when Map is called, successor computed from its result.
func TestMapSingleStep(t *testing.T) {
	p, err := pool.NewPool(2)
	require.NoError(t, err)
	defer p.Stop()

	pred, err := future.Async(p, func() int {
		time.Sleep(50 * time.Millisecond)
		return 10
	})
	require.NoError(t, err)

	succ, err := future.Map(p, pred, func(v int) int { return v * 2 })
	require.NoError(t, err)

	assert.Equal(t, 20, future.Await(succ))
}

// TestMapOnAlreadyFinished covers the other half of the exclusivity
// protocol: Map called after the predecessor has already finished must
// still submit immediately rather than waiting on a continuation that will
// never fire.
func TestMapOnAlreadyFinished(t *testing.T) {
	p, err := pool.NewPool(2)
	require.NoError(t, err)
	defer p.Stop()

	pred, err := future.Async(p, func() int { return 5 })
	require.NoError(t, err)

	require.Equal(t, 5, future.Await(pred))
	// pred.finished is now true but we never called Map on it before this,
	// so this exercises protocol step 3 ("already finished" branch).
	succ, err := future.Map(p, pred, func(v int) string {
		if v == 5 {
			return "five"
		}
		return "other"
	})
	require.NoError(t, err)
	assert.Equal(t, "five", future.Await(succ))
}

// TestMapTwiceRejected asserts a predecessor accepts at most one
// continuation.
func TestMapTwiceRejected(t *testing.T) {
	p, err := pool.NewPool(2)
	require.NoError(t, err)
	defer p.Stop()

	pred, err := future.Async(p, func() int {
		time.Sleep(100 * time.Millisecond)
		return 1
	})
	require.NoError(t, err)

	_, err = future.Map(p, pred, func(v int) int { return v })
	require.NoError(t, err)

	_, err = future.Map(p, pred, func(v int) int { return v })
	assert.ErrorIs(t, err, future.ErrContinuationAlreadySet)
}

// TestMapChainFactorial covers scenario 4: three interleaved chains seeded
// with 1, 2, 3 advance by multiplying by an increasing factor every third
// step; the product of the last three terminal futures is N!.
func TestMapChainFactorial(t *testing.T) {
	p, err := pool.NewPool(3)
	require.NoError(t, err)
	defer p.Stop()

	const n = 12 // multiple of 3, so the last three futures cleanly finish the run

	chain := make([]*future.Future[int], n)
	var err0, err1, err2 error
	chain[0], err0 = future.Async(p, func() int { return 1 })
	chain[1], err1 = future.Async(p, func() int { return 2 })
	chain[2], err2 = future.Async(p, func() int { return 3 })
	require.NoError(t, err0)
	require.NoError(t, err1)
	require.NoError(t, err2)

	for i := 3; i < n; i++ {
		factor := i + 1
		next, err := future.Map(p, chain[i-3], func(v int) int { return v * factor })
		require.NoError(t, err)
		chain[i] = next
	}

	product := future.Await(chain[n-1]) * future.Await(chain[n-2]) * future.Await(chain[n-3])
	assert.Equal(t, factorial(n), product)
}

func factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// TestMapContinuationArrivalOrdering covers scenario 6: Map is called while
// the predecessor is still running, and the continuation must observe the
// predecessor's actual return value once it arrives.
func TestMapContinuationArrivalOrdering(t *testing.T) {
	p, err := pool.NewPool(2)
	require.NoError(t, err)
	defer p.Stop()

	f, err := future.Async(p, func() int {
		time.Sleep(200 * time.Millisecond)
		return 7
	})
	require.NoError(t, err)

	// Map lands well within the sleep window, before the predecessor's
	// wrapper has set finished.
	time.Sleep(50 * time.Millisecond)
	g, err := future.Map(p, f, func(v int) int { return v * 100 })
	require.NoError(t, err)

	assert.Equal(t, 700, future.Await(g))
}
