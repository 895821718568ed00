package keyed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockSerializesSameKey(t *testing.T) {
	m := NewMutex()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("same")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}

func TestDistinctKeysDoNotBlock(t *testing.T) {
	m := NewMutex()

	unlockA := m.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
}

func TestEntriesAreReleased(t *testing.T) {
	m := NewMutex()
	unlock := m.Lock("key")
	unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Empty(t, m.entries)
}
