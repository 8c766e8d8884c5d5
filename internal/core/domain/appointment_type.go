package domain

import "github.com/google/uuid"

// AppointmentType - локально сконфигурированный тип приема.
// Принадлежит приложению записи, для движка сверки - неизменяемый вход.
type AppointmentType struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`

	// Идентификатор типа визита в МИС. Заполнен только у врачей
	// со стратегией явной фильтрации по типу визита.
	VisitTypeID     string `json:"visitTypeId,omitempty"`
	VisitTypeIDType string `json:"visitTypeIdType,omitempty"`
}

func (t AppointmentType) HasVisitType() bool {
	return t.VisitTypeID != ""
}

// GroupAppointmentTypesByDuration группирует типы приема по длительности.
// Несколько типов могут иметь одну длительность - это основа стратегии
// вывода по длительности: один слот разворачивается в несколько предложений.
func GroupAppointmentTypesByDuration(types []AppointmentType) map[int][]AppointmentType {
	buckets := make(map[int][]AppointmentType)
	for _, appointmentType := range types {
		buckets[appointmentType.DurationMinutes] = append(buckets[appointmentType.DurationMinutes], appointmentType)
	}
	return buckets
}
