package tracker

import (
	"sync"
	"testing"
)

func TestCounters(t *testing.T) {
	tr := New()

	tr.TrackFrame()
	tr.TrackFrame()
	tr.TrackHover()
	tr.TrackSelect()
	tr.TrackFocusSettled()
	tr.TrackStreamOpen()
	tr.TrackStreamOpen()
	tr.TrackStreamClose()

	s := tr.Snapshot()
	if s.Frames != 2 {
		t.Errorf("Frames = %d, want 2", s.Frames)
	}
	if s.Hovers != 1 || s.Selects != 1 || s.FocusSettled != 1 {
		t.Errorf("interaction counters = %+v", s)
	}
	if s.StreamClients != 1 {
		t.Errorf("StreamClients = %d, want 1", s.StreamClients)
	}
}

func TestConcurrentTracking(t *testing.T) {
	tr := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				tr.TrackFrame()
			}
		}()
	}
	wg.Wait()

	if got := tr.Snapshot().Frames; got != 8000 {
		t.Errorf("Frames = %d, want 8000", got)
	}
}
