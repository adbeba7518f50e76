package service

import (
	"errors"
	"fmt"
	"time"

	"JourFlow/internal/cli/model"
)

// Шаги прохода синхронизации в порядке выполнения.
const (
	StepPull        = "pull"
	StepPushDeletes = "push-deletes"
	StepPushNew     = "push-new-posts"
	StepPushImages  = "push-images"
	StepPushUpdates = "push-updates"
)

// StepResult — итог одного шага.
type StepResult struct {
	Step    string
	Sent    int   // строк отправлено на сервер
	Settled int64 // строк переведено в SYNCED (или удалено)
	Err     error
}

// PassReport — итог прохода синхронизации.
type PassReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      []StepResult
	Merge      model.MergeResult
	Uploads    []*AssetUploadError
}

// Err объединяет ошибки шагов.
func (r PassReport) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Step, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Partial сообщает, что часть работы осталась на следующий проход.
func (r PassReport) Partial() bool {
	return len(r.Uploads) > 0 || r.Err() != nil
}

// Step возвращает результат шага по имени.
func (r PassReport) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == name {
			return s, true
		}
	}
	return StepResult{}, false
}
