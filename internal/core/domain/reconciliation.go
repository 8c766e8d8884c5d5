package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationUnit - гранулярность одного запроса в МИС:
// (врач, отделение, дата[, тип приема]). Живет только в рамках
// одной итерации оркестратора.
type ReconciliationUnit struct {
	Provider    *Provider
	Department  Department
	Date        time.Time
	VisitTypeID string
	// Заполнен только для стратегии фильтрации по типу визита
	AppointmentType *AppointmentType
}

// ScheduleDayKey - ключ кэша сырых ответов МИС
type ScheduleDayKey struct {
	ProviderID   string
	DepartmentID string
	VisitTypeID  string
	Date         string
}

// VisitTypeIDType - тип идентификатора типа визита, если единица его несет
func (u ReconciliationUnit) VisitTypeIDType() string {
	if u.AppointmentType != nil {
		return u.AppointmentType.VisitTypeIDType
	}
	return ""
}

func (u ReconciliationUnit) CacheKey() ScheduleDayKey {
	return ScheduleDayKey{
		ProviderID:   u.Provider.ID,
		DepartmentID: u.Department.ID,
		VisitTypeID:  u.VisitTypeID,
		Date:         u.Date.Format("2006-01-02"),
	}
}

// ProposedAppointment - кандидат на запись: выход движка сверки.
// Интервал [StartDateTime, StartDateTime+DurationMinutes) гарантированно
// не пересекается ни с одним заблокированным интервалом этого дня.
type ProposedAppointment struct {
	AppointmentTypeID uuid.UUID `json:"appointmentTypeId"`
	ProviderID        string    `json:"providerId"`
	DepartmentID      string    `json:"departmentId"`
	StartDateTime     time.Time `json:"startDateTime"`
	DurationMinutes   int       `json:"durationMinutes"`
}

// ReconciliationResult - результат сверки по одному врачу на одну дату
type ReconciliationResult struct {
	ProviderID string                `json:"providerId"`
	Date       time.Time             `json:"date"`
	TimeZone   string                `json:"timeZone"`
	Proposed   []ProposedAppointment `json:"proposedAppointments"`
}

// UnitFailure - отказ одной единицы сверки. Не прерывает соседние единицы:
// собирается в отчет по запуску вместе с успешными результатами.
type UnitFailure struct {
	ProviderID   string    `json:"providerId"`
	DepartmentID string    `json:"departmentId"`
	Date         time.Time `json:"date"`
	VisitTypeID  string    `json:"visitTypeId,omitempty"`
	Reason       string    `json:"reason"`
	// Сырое тело ответа МИС, если отказ вызван некорректными данными
	RawResponse string `json:"rawResponse,omitempty"`
}

// ScheduleSlotRow - сырой слот с контекстом единицы сверки,
// одна строка CSV-выгрузки. Удобство для отчетов, не часть контракта сверки.
type ScheduleSlotRow struct {
	ProviderID   string       `json:"providerId"`
	DepartmentID string       `json:"departmentId"`
	VisitTypeID  string       `json:"visitTypeId,omitempty"`
	Date         time.Time    `json:"date"`
	Slot         ScheduleSlot `json:"slot"`
}

// RunReport - итог одного запуска: успешные результаты и отказы единиц.
// Решение о приемлемости частичного успеха принимает вызывающая сторона.
type RunReport struct {
	RunID     uuid.UUID              `json:"runId"`
	StartDate time.Time              `json:"startDate"`
	EndDate   time.Time              `json:"endDate"`
	Results   []ReconciliationResult `json:"results"`
	Failures  []UnitFailure          `json:"failures"`
	SlotRows  []ScheduleSlotRow      `json:"-"`
	Debug     []DebugInfo            `json:"debug,omitempty"`
}
