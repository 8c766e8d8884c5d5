package domain

import "time"

// ScheduleDay - один сырой ответ МИС: слоты расписания врача
// на одну дату в рамках отделения (и, опционально, типа визита)
type ScheduleDay struct {
	Date                  time.Time      `json:"date"`
	UnavailableDayReason  string         `json:"unavailableDayReason,omitempty"`
	UnavailableDayComment string         `json:"unavailableDayComment,omitempty"`
	Slots                 []ScheduleSlot `json:"scheduleSlots"`
}
