package ehr

import (
	"errors"
	"fmt"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/json_types"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
)

// Запрос к эндпоинту поиска расписания: все идентификаторы парой (id, idType)
type scheduleDayRequest struct {
	Date             string `json:"date"`
	ProviderID       string `json:"providerId"`
	ProviderIDType   string `json:"providerIdType"`
	DepartmentID     string `json:"departmentId"`
	DepartmentIDType string `json:"departmentIdType"`
	VisitTypeID      string `json:"visitTypeId,omitempty"`
	VisitTypeIDType  string `json:"visitTypeIdType,omitempty"`
	UserID           string `json:"userId"`
	UserIDType       string `json:"userIdType"`
}

func newScheduleDayRequest(query out.ScheduleDayQuery, userID, userIDType string) scheduleDayRequest {
	return scheduleDayRequest{
		Date:             query.Date.Format("2006-01-02"),
		ProviderID:       query.ProviderID,
		ProviderIDType:   query.ProviderIDType,
		DepartmentID:     query.DepartmentID,
		DepartmentIDType: query.DepartmentIDType,
		VisitTypeID:      query.VisitTypeID,
		VisitTypeIDType:  query.VisitTypeIDType,
		UserID:           userID,
		UserIDType:       userIDType,
	}
}

// Ответ МИС: время в 12-часовом текстовом формате, числа закодированы строками.
// Кастомные json-типы валят десериализацию на первом же некорректном значении.
type scheduleSlotDTO struct {
	StartTime              json_types.ClockTime `json:"startTime"`
	Length                 json_types.StringInt `json:"length"`
	AvailableOpenings      json_types.StringInt `json:"availableOpenings"`
	OriginalOpenings       json_types.StringInt `json:"originalOpenings"`
	IsPublic               bool                 `json:"isPublic"`
	HeldTimeReason         string               `json:"heldTimeReason,omitempty"`
	HeldTimeComment        string               `json:"heldTimeComment,omitempty"`
	HeldTimeAllDay         bool                 `json:"heldTimeAllDay,omitempty"`
	UnavailableTimeReason  string               `json:"unavailableTimeReason,omitempty"`
	UnavailableTimeComment string               `json:"unavailableTimeComment,omitempty"`
}

type scheduleDayResponse struct {
	Date                  json_types.Date   `json:"date"`
	UnavailableDayReason  string            `json:"unavailableDayReason,omitempty"`
	UnavailableDayComment string            `json:"unavailableDayComment,omitempty"`
	ScheduleSlots         []scheduleSlotDTO `json:"scheduleSlots"`
}

func (r scheduleDayResponse) toDomain() (*domain.ScheduleDay, error) {
	day := &domain.ScheduleDay{
		Date:                  r.Date.Date,
		UnavailableDayReason:  r.UnavailableDayReason,
		UnavailableDayComment: r.UnavailableDayComment,
	}

	// Ответ без списка слотов - некорректные данные, а не пустой день:
	// у валидного дня список есть, пусть и пустой
	if r.ScheduleSlots == nil {
		return nil, errors.New("schedule slot list missing")
	}

	day.Slots = make([]domain.ScheduleSlot, 0, len(r.ScheduleSlots))
	for i, dto := range r.ScheduleSlots {
		if dto.Length.Int() <= 0 {
			return nil, fmt.Errorf("slot %d: length must be positive, got %d", i, dto.Length.Int())
		}
		if dto.AvailableOpenings.Int() < 0 {
			return nil, fmt.Errorf("slot %d: availableOpenings must not be negative, got %d", i, dto.AvailableOpenings.Int())
		}
		if dto.OriginalOpenings.Int() < 0 {
			return nil, fmt.Errorf("slot %d: originalOpenings must not be negative, got %d", i, dto.OriginalOpenings.Int())
		}

		day.Slots = append(day.Slots, domain.ScheduleSlot{
			StartTime:          dto.StartTime,
			LengthMinutes:      dto.Length.Int(),
			AvailableOpenings:  dto.AvailableOpenings.Int(),
			OriginalOpenings:   dto.OriginalOpenings.Int(),
			IsPublic:           dto.IsPublic,
			HeldReason:         dto.HeldTimeReason,
			HeldComment:        dto.HeldTimeComment,
			HeldAllDay:         dto.HeldTimeAllDay,
			UnavailableReason:  dto.UnavailableTimeReason,
			UnavailableComment: dto.UnavailableTimeComment,
		})
	}

	return day, nil
}
