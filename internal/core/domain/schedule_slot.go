package domain

import (
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/json_types"
)

// ScheduleSlot - одна единица времени в расписании врача на конкретную дату.
// Значения уже нормализованы на границе с МИС, бизнес-логики здесь нет.
// Слот неизменяем и никогда не сохраняется: живет только в рамках
// одной единицы сверки.
type ScheduleSlot struct {
	StartTime          json_types.ClockTime `json:"startTime"`
	LengthMinutes      int                  `json:"lengthMinutes"`
	AvailableOpenings  int                  `json:"availableOpenings"`
	OriginalOpenings   int                  `json:"originalOpenings"`
	IsPublic           bool                 `json:"isPublic"`
	HeldReason         string               `json:"heldReason,omitempty"`
	HeldComment        string               `json:"heldComment,omitempty"`
	UnavailableReason  string               `json:"unavailableReason,omitempty"`
	UnavailableComment string               `json:"unavailableComment,omitempty"`
	HeldAllDay         bool                 `json:"heldAllDay,omitempty"`
}

// Blocked - ключевой инвариант сверки: слот заблокирован тогда и только тогда,
// когда у него заполнена причина удержания или недоступности.
// Счетчику openings из МИС как единственному признаку доступности не доверяем.
func (s ScheduleSlot) Blocked() bool {
	return s.HeldReason != "" || s.UnavailableReason != ""
}

// EndTime - конец собственного интервала слота (полуоткрытый справа)
func (s ScheduleSlot) EndTime() json_types.ClockTime {
	return s.StartTime.Add(s.LengthMinutes)
}
