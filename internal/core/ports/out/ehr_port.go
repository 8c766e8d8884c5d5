package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
)

// ScheduleDayQuery - параметры одного запроса расписания в МИС.
// Все идентификаторы ходят парой (значение, тип значения) - так их
// адресует сама МИС.
type ScheduleDayQuery struct {
	Date             time.Time
	ProviderID       string
	ProviderIDType   string
	DepartmentID     string
	DepartmentIDType string
	VisitTypeID      string
	VisitTypeIDType  string
}

// ErrMalformedResponse - МИС вернула данные, которые не удалось распарсить.
// Для единицы сверки это фатально и не ретраится: нарушен контракт интеграции.
var ErrMalformedResponse = errors.New("malformed ehr response")

// MalformedResponseError несет сырое тело ответа для лога и отчета
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed ehr response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// EhrPort - шлюз к эндпоинту поиска расписания МИС
type EhrPort interface {
	GetScheduleDay(ctx context.Context, query ScheduleDayQuery) (*domain.ScheduleDay, error)
}
