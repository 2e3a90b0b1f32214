package graph

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/saferoute-backend-go/internal/models"
	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

type countingSource struct {
	data  *OSMData
	err   error
	delay time.Duration
	calls int32
}

func (s *countingSource) FetchRegion(ctx context.Context, box spatial.BoundingBox) (*OSMData, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func TestProviderCachesGraphs(t *testing.T) {
	src := &countingSource{data: gridOSM()}
	p := NewProvider(src, time.Minute, 500)
	region := gridRegion()

	g1, err := p.GetGraph(context.Background(), region, models.ModeDrive)
	require.NoError(t, err)
	g2, err := p.GetGraph(context.Background(), region, models.ModeDrive)
	require.NoError(t, err)

	assert.Same(t, g1, g2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
	assert.Equal(t, 1, p.CachedGraphCount())

	// A different mode is a different graph
	_, err = p.GetGraph(context.Background(), region, models.ModeWalk)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
	assert.Equal(t, 2, p.CachedGraphCount())
}

func TestProviderSourceFailure(t *testing.T) {
	p := NewProvider(&countingSource{err: errors.New("overpass down")}, time.Minute, 500)

	_, err := p.GetGraph(context.Background(), gridRegion(), models.ModeDrive)
	assert.ErrorIs(t, err, models.ErrGraphUnavailable)
}

func TestProviderEmptyRegion(t *testing.T) {
	p := NewProvider(&countingSource{data: &OSMData{}}, time.Minute, 500)

	_, err := p.GetGraph(context.Background(), gridRegion(), models.ModeDrive)
	assert.ErrorIs(t, err, models.ErrGraphUnavailable)
}

func TestProviderWaiterSurvivesFirstCallerTimeout(t *testing.T) {
	src := &countingSource{data: gridOSM(), delay: 150 * time.Millisecond}
	p := NewProvider(src, time.Minute, 500)
	region := gridRegion()

	ctxA, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := p.GetGraph(ctxA, region, models.ModeDrive)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	g, err := p.GetGraph(context.Background(), region, models.ModeDrive)

	// The expired caller fails alone; the shared build finishes for the
	// waiter and only one fetch happens
	require.NoError(t, err)
	assert.NotNil(t, g)
	assert.ErrorIs(t, <-done, models.ErrGraphUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}
