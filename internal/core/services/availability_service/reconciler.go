package availability_service

import (
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/json_types"
)

// Полуоткрытый интервал [start, end) в минутах от полуночи
type minuteInterval struct {
	start int
	end   int
}

// Два полуоткрытых интервала пересекаются тогда и только тогда,
// когда a1 < b2 и b1 < a2. Касание концами (a2 == b1) пересечением
// не считается: смежность не означает исключение.
func (i minuteInterval) overlaps(other minuteInterval) bool {
	return i.start < other.end && other.start < i.end
}

// blockedIntervals собирает заблокированные интервалы дня: по одному
// [start, start+length) на каждый слот с причиной удержания или недоступности
func blockedIntervals(slots []domain.ScheduleSlot) []minuteInterval {
	intervals := make([]minuteInterval, 0)
	for _, slot := range slots {
		if !slot.Blocked() {
			continue
		}
		intervals = append(intervals, minuteInterval{
			start: slot.StartTime.Minutes,
			end:   slot.StartTime.Minutes + slot.LengthMinutes,
		})
	}
	return intervals
}

// bookableStartTimes возвращает времена начала, по которым реально можно
// записать прием заданной длительности.
//
// Интервал кандидата строится от длительности типа приема, а не от длины
// слота: собственная длина слота может не совпадать с проверяемым типом.
// Слот с нулем openings исключается сразу, независимо от блокировок.
func bookableStartTimes(slots []domain.ScheduleSlot, candidateDurationMinutes int) []json_types.ClockTime {
	blocked := blockedIntervals(slots)
	startTimes := make([]json_types.ClockTime, 0)

	for _, slot := range slots {
		if slot.AvailableOpenings <= 0 {
			continue
		}
		if slot.Blocked() {
			continue
		}

		if intervalBookable(blocked, slot.StartTime.Minutes, candidateDurationMinutes) {
			startTimes = append(startTimes, slot.StartTime)
		}
	}

	return startTimes
}

// intervalBookable проверяет интервал кандидата против заблокированных интервалов дня
func intervalBookable(blocked []minuteInterval, startMinutes, durationMinutes int) bool {
	proposed := minuteInterval{
		start: startMinutes,
		end:   startMinutes + durationMinutes,
	}

	for _, blockedInterval := range blocked {
		if proposed.overlaps(blockedInterval) {
			return false
		}
	}

	return true
}
