package tools

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/YongboStudio/WinToolbox/common"
)

// Progress is the cumulative byte count of a download. Total is zero when the
// server does not announce a length.
type Progress struct {
	Downloaded int64
	Total      int64
}

func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Downloaded) / float64(p.Total)
}

// Task is a download running in the background. Progress updates arrive on
// Progress() until the channel is closed, after which Wait returns at once.
type Task struct {
	ID       string
	progress chan Progress
	done     chan struct{}
	result   common.Result
}

func (t *Task) Progress() <-chan Progress {
	return t.progress
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Wait() common.Result {
	<-t.done
	return t.result
}

// Install starts Download on its own goroutine. Progress values are dropped
// rather than blocking the transfer when the consumer falls behind.
func (r *Registry) Install(ctx context.Context, id string) *Task {
	t := &Task{
		ID:       id,
		progress: make(chan Progress, 32),
		done:     make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		defer close(t.progress)
		t.result = r.Download(ctx, id, func(downloaded, total int64) {
			select {
			case t.progress <- Progress{Downloaded: downloaded, Total: total}:
			default:
			}
		})
	}()
	return t
}

// InstallAll downloads several tools, at most two at a time.
func (r *Registry) InstallAll(ctx context.Context, ids []string) map[string]common.Result {
	results := make([]common.Result, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = r.Download(ctx, id, nil)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]common.Result, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out
}
