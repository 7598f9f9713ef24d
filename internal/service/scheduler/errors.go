package scheduler

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInternal возвращается, если не удалось загрузить кандидатов
	ErrInternal = errors.New("scheduler: internal error")
	// ErrUnknownJob задача с таким именем не зарегистрирована
	ErrUnknownJob = fmt.Errorf("%w: unknown job", domain.ErrNotFound)
	// ErrStopped планировщик уже остановлен
	ErrStopped = errors.New("scheduler: runner stopped")
)
