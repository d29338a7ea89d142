package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore é um sliding log mínimo, suficiente para exercitar o Service.
type fakeStore struct {
	hits map[domain.Key][]time.Time
	err  error
}

func (f *fakeStore) Hit(_ context.Context, key domain.Key, windowStart, now time.Time, limit int) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	if f.hits == nil {
		f.hits = make(map[domain.Key][]time.Time)
	}
	var recent []time.Time
	for _, ts := range f.hits[key] {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}
	if len(recent) >= limit {
		return len(recent), false, nil
	}
	recent = append(recent, now)
	f.hits[key] = recent
	return len(recent), true, nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newService(store domain.WindowStore, clock *fakeClock) Service {
	return Service{
		Store:  store,
		Config: domain.Config{Window: time.Minute, MaxRequests: 5},
		Now:    clock.Now,
	}
}

func TestService_Decide_RemainingCountsDownThenRejects(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := newService(&fakeStore{}, clock)

	for want := 4; want >= 0; want-- {
		dec, err := svc.Decide(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, dec.Allowed)
		assert.Equal(t, want, dec.Remaining)
		assert.Equal(t, 5, dec.Limit)
		clock.Advance(time.Second)
	}

	dec, err := svc.Decide(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)
}

func TestService_Decide_AllowsAgainAfterWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := newService(&fakeStore{}, clock)

	for i := 0; i < 5; i++ {
		_, err := svc.Decide(context.Background(), "k")
		require.NoError(t, err)
	}
	dec, err := svc.Decide(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, dec.Allowed)

	clock.Advance(time.Minute + time.Millisecond)

	dec, err = svc.Decide(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
	assert.Equal(t, 4, dec.Remaining)
}

func TestService_Decide_IndependentKeys(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := newService(&fakeStore{}, clock)

	for i := 0; i < 6; i++ {
		_, err := svc.Decide(context.Background(), "a")
		require.NoError(t, err)
	}

	dec, err := svc.Decide(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
	assert.Equal(t, 4, dec.Remaining)
}

func TestService_Decide_ResetAtIsOneWindowFromNow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := newService(&fakeStore{}, clock)

	dec, err := svc.Decide(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(time.Minute), dec.ResetAt)

	// reset anda junto com cada chamada, não fica preso à primeira requisição
	clock.Advance(10 * time.Second)
	dec, err = svc.Decide(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(time.Minute), dec.ResetAt)
	assert.Equal(t, time.Minute, dec.RetryAfter(clock.t))
}

func TestService_Decide_WrapsStoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := newService(&fakeStore{err: boom}, &fakeClock{t: time.Now()})

	_, err := svc.Decide(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestService_Decide_RejectsInvalidConfig(t *testing.T) {
	svc := Service{Store: &fakeStore{}, Config: domain.Config{Window: time.Minute}}

	_, err := svc.Decide(context.Background(), "k")
	assert.Error(t, err)
}
