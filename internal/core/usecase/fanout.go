package usecase

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/core/ports"
)

const defaultMaxWorkers = 5

// FanOutExecutor runs classification over a bounded worker pool. Each call
// to RunAll gets its own pool; the cap bounds resource usage against large
// file or segment batches, it is not a process-wide limit.
type FanOutExecutor struct {
	classifier ports.TextClassifier
	maxWorkers int
}

func NewFanOutExecutor(classifier ports.TextClassifier, maxWorkers int) *FanOutExecutor {
	if maxWorkers < 1 {
		maxWorkers = defaultMaxWorkers
	}
	return &FanOutExecutor{
		classifier: classifier,
		maxWorkers: maxWorkers,
	}
}

// RunAll classifies every unit and returns one record per unit, addressed
// by the unit's original index regardless of completion order. A failing
// unit degrades to the canonical uncertain verdict and never aborts its
// siblings; RunAll itself never fails.
func (e *FanOutExecutor) RunAll(ctx context.Context, units []domain.WorkUnit) []domain.PartialRecord {
	records := make([]domain.PartialRecord, len(units))
	if len(units) == 0 {
		return records
	}

	sem := semaphore.NewWeighted(int64(e.maxWorkers))
	var wg sync.WaitGroup

	for i := range units {
		wg.Add(1)
		go func(idx int, unit domain.WorkUnit) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				records[idx] = degradedRecord(unit)
				return
			}
			defer sem.Release(1)
			records[idx] = e.reviewUnit(ctx, unit)
		}(i, units[i])
	}

	wg.Wait()
	return records
}

func (e *FanOutExecutor) reviewUnit(ctx context.Context, unit domain.WorkUnit) (record domain.PartialRecord) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("classify_panic", "unit", unit.Name, "panic", r)
			record = degradedRecord(unit)
		}
	}()

	verdict := e.classifier.Classify(ctx, unit.Text, unit.Hint)
	return domain.PartialRecord{
		Name:    unit.Name,
		Type:    unit.Type,
		Verdict: verdict,
	}
}

func degradedRecord(unit domain.WorkUnit) domain.PartialRecord {
	return domain.PartialRecord{
		Name:    unit.Name,
		Type:    unit.Type,
		Verdict: domain.UncertainVerdict(domain.CallMeta{Error: "unit execution aborted"}),
	}
}
