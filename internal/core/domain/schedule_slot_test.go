package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/json_types"
	"github.com/stretchr/testify/assert"
)

func TestScheduleSlotBlocked(t *testing.T) {
	tests := []struct {
		name    string
		slot    ScheduleSlot
		blocked bool
	}{
		{
			name:    "открытый слот",
			slot:    ScheduleSlot{AvailableOpenings: 1},
			blocked: false,
		},
		{
			name:    "причина удержания",
			slot:    ScheduleSlot{AvailableOpenings: 1, HeldReason: "Lunch"},
			blocked: true,
		},
		{
			name:    "причина недоступности",
			slot:    ScheduleSlot{AvailableOpenings: 1, UnavailableReason: "Vacation"},
			blocked: true,
		},
		{
			// Комментарий без причины не блокирует
			name:    "только комментарий",
			slot:    ScheduleSlot{AvailableOpenings: 1, HeldComment: "note"},
			blocked: false,
		},
		{
			// Счетчик openings не признак блокировки: ноль мест не означает причину
			name:    "ноль мест без причины",
			slot:    ScheduleSlot{AvailableOpenings: 0},
			blocked: false,
		},
		{
			// Флаг held-all-day сам по себе информационный
			name:    "held all day без причины",
			slot:    ScheduleSlot{AvailableOpenings: 1, HeldAllDay: true},
			blocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocked, tt.slot.Blocked())
		})
	}
}

func TestScheduleSlotEndTime(t *testing.T) {
	slot := ScheduleSlot{
		StartTime:     json_types.NewClockTime(9, 0),
		LengthMinutes: 30,
	}
	assert.Equal(t, json_types.NewClockTime(9, 30), slot.EndTime())
}

func TestGroupAppointmentTypesByDuration(t *testing.T) {
	checkup := AppointmentType{ID: uuid.New(), Name: "Checkup", DurationMinutes: 30}
	followUp := AppointmentType{ID: uuid.New(), Name: "Follow-up", DurationMinutes: 30}
	consult := AppointmentType{ID: uuid.New(), Name: "Consult", DurationMinutes: 60}

	buckets := GroupAppointmentTypesByDuration([]AppointmentType{checkup, followUp, consult})

	assert.Len(t, buckets, 2)
	assert.ElementsMatch(t, []AppointmentType{checkup, followUp}, buckets[30])
	assert.ElementsMatch(t, []AppointmentType{consult}, buckets[60])

	_, exists := buckets[15]
	assert.False(t, exists)
}

func TestAppointmentTypeHasVisitType(t *testing.T) {
	assert.True(t, AppointmentType{VisitTypeID: "100"}.HasVisitType())
	assert.False(t, AppointmentType{}.HasVisitType())
}
