package currency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls atomic.Int32
	mu    sync.Mutex
	rates RateTable
	err   error
	delay time.Duration
}

func (p *fakeProvider) FetchRates(ctx context.Context, base string) (RateTable, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.rates.Clone(), nil
}

func (p *fakeProvider) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(p Provider) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache(p, time.Hour)
	c.now = clock.Now
	return c, clock
}

func TestCache_ServesFreshEntryFromMemory(t *testing.T) {
	p := &fakeProvider{rates: RateTable{"EUR": 1, "USD": 1.1}}
	c, clock := newTestCache(p)
	ctx := context.Background()

	first := c.Get(ctx, "eur")
	require.False(t, first.Stale)
	assert.Equal(t, "EUR", first.Base)
	assert.Equal(t, 1.1, first.Rates["USD"])

	clock.Advance(59 * time.Minute)
	second := c.Get(ctx, "EUR")
	assert.False(t, second.Stale)
	assert.Equal(t, int32(1), p.calls.Load(), "fresh entry should not hit the provider")
}

func TestCache_RefreshesAfterTTL(t *testing.T) {
	p := &fakeProvider{rates: RateTable{"EUR": 1, "USD": 1.1}}
	c, clock := newTestCache(p)
	ctx := context.Background()

	c.Get(ctx, "EUR")
	clock.Advance(time.Hour)
	snap := c.Get(ctx, "EUR")

	assert.False(t, snap.Stale)
	assert.Equal(t, int32(2), p.calls.Load())
	assert.Equal(t, clock.Now(), snap.FetchedAt)
}

func TestCache_ReusesStaleTableOnFailure(t *testing.T) {
	p := &fakeProvider{rates: RateTable{"EUR": 1, "USD": 1.1}}
	c, clock := newTestCache(p)
	ctx := context.Background()

	c.Get(ctx, "EUR")
	clock.Advance(2 * time.Hour)
	p.fail(errors.New("network down"))

	snap := c.Get(ctx, "EUR")
	assert.True(t, snap.Stale)
	assert.Equal(t, 1.1, snap.Rates["USD"])
}

func TestCache_EmptyTableWhenNeverFetched(t *testing.T) {
	p := &fakeProvider{err: errors.New("network down")}
	c, _ := newTestCache(p)

	snap := c.Get(context.Background(), "EUR")
	assert.True(t, snap.Stale)
	assert.NotNil(t, snap.Rates)
	assert.Empty(t, snap.Rates)
}

func TestCache_RefreshReturnsError(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	c, _ := newTestCache(p)

	_, err := c.Refresh(context.Background(), "EUR")
	require.Error(t, err)
}

func TestCache_ReturnedTableIsACopy(t *testing.T) {
	p := &fakeProvider{rates: RateTable{"EUR": 1, "USD": 1.1}}
	c, _ := newTestCache(p)
	ctx := context.Background()

	snap := c.Get(ctx, "EUR")
	snap.Rates["USD"] = 99

	again := c.Get(ctx, "EUR")
	assert.Equal(t, 1.1, again.Rates["USD"])
}

func TestCache_ConcurrentRefreshesShareOneFetch(t *testing.T) {
	p := &fakeProvider{rates: RateTable{"EUR": 1}, delay: 50 * time.Millisecond}
	c := NewCache(p, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(context.Background(), "EUR")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), p.calls.Load())
}

// contextProvider fails whenever the context it is handed is done.
type contextProvider struct{ rates RateTable }

func (p contextProvider) FetchRates(ctx context.Context, base string) (RateTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.rates.Clone(), nil
}

func TestCache_FetchOutlivesCancelledCaller(t *testing.T) {
	c, _ := newTestCache(contextProvider{rates: RateTable{"EUR": 1, "USD": 1.1}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := c.Get(ctx, "EUR")
	assert.False(t, snap.Stale)
	assert.Equal(t, 1.1, snap.Rates["USD"])
}
