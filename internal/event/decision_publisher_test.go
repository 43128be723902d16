package event

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionPublisher_StatsStartAtZero(t *testing.T) {
	p := NewDecisionPublisher(nil)

	stats := p.GetStats()
	assert.Zero(t, stats.MessagesPublished)
	assert.Zero(t, stats.MessagesFailed)
	assert.False(t, stats.LastPublishTime.IsZero())
}

func TestDecisionPublisher_ClosedConnectionCountsFailure(t *testing.T) {
	p := NewDecisionPublisher(nil)

	err := p.PublishDecision(context.Background(), OrderDecisionEvent{OrderID: 1})
	require.Error(t, err)

	stats := p.GetStats()
	assert.Equal(t, int64(1), stats.MessagesFailed)
	assert.Zero(t, stats.MessagesPublished)
}

func TestDecisionPublisher_CountersSafeUnderConcurrency(t *testing.T) {
	p := NewDecisionPublisher(nil)

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = p.PublishDecision(context.Background(), OrderDecisionEvent{OrderID: 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers), p.GetStats().MessagesFailed)
}
