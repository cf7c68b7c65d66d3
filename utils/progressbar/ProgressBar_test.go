package progressbar

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestIncrementCapsAtMax(t *testing.T) {
	bar := NewProgressBar(10, 3, time.Second, false)

	for i := 0; i < 5; i++ {
		bar.Increment()
	}

	if bar.Progress() != 3 {
		t.Errorf("wrong progress \n\thave(%v) \n\twant(%v)",
			bar.Progress(), 3)
	}
}

func TestConcurrentIncrement(t *testing.T) {
	const workers = 4
	const perWorker = 25

	bar := NewProgressBar(10, workers*perWorker, time.Millisecond, true)
	bar.Display()
	defer bar.Close()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				bar.Increment()
			}
		}()
	}
	wg.Wait()

	if bar.Progress() != workers*perWorker {
		t.Errorf("wrong progress \n\thave(%v) \n\twant(%v)",
			bar.Progress(), workers*perWorker)
	}
}

func TestRender(t *testing.T) {
	bar := NewProgressBar(4, 4, time.Second, false)
	bar.Increment()
	bar.Increment()

	rendered := bar.render(3 * time.Second)
	if !strings.HasPrefix(rendered, "|██  |") {
		t.Errorf("wrong bar prefix: %v", rendered)
	}
	if !strings.Contains(rendered, "50.00%") {
		t.Errorf("rendered bar should report 50.00%%: %v", rendered)
	}
	if !strings.Contains(rendered, "elapsed: 3s") {
		t.Errorf("rendered bar should report elapsed time: %v", rendered)
	}
}

func TestNewRejectsNonPositiveArguments(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("a non-positive max should be rejected")
		}
	}()
	NewProgressBar(10, 0, time.Second, false)
}

func TestDoubleClosePanics(t *testing.T) {
	bar := NewProgressBar(10, 1, time.Second, false)
	bar.Close()

	defer func() {
		if recover() == nil {
			t.Error("closing a closed progress bar should panic")
		}
	}()
	bar.Close()
}
