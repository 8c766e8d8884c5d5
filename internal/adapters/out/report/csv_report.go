package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
)

// Колонки выгрузки. Порядок фиксирован: аналитики завязаны на него.
var slotRowsHeader = []string{
	"runId",
	"providerId",
	"departmentId",
	"visitTypeId",
	"date",
	"startTime",
	"lengthMinutes",
	"availableOpenings",
	"originalOpenings",
	"isPublic",
	"blocked",
	"heldReason",
	"heldComment",
	"heldAllDay",
	"unavailableReason",
	"unavailableComment",
}

// WriteSlotRows - CSV-выгрузка сырых слотов запуска: по строке на слот
// в контексте его единицы сверки
func WriteSlotRows(w io.Writer, report *domain.RunReport) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(slotRowsHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	runID := report.RunID.String()
	for _, row := range report.SlotRows {
		record := []string{
			runID,
			row.ProviderID,
			row.DepartmentID,
			row.VisitTypeID,
			row.Date.Format("2006-01-02"),
			row.Slot.StartTime.String(),
			strconv.Itoa(row.Slot.LengthMinutes),
			strconv.Itoa(row.Slot.AvailableOpenings),
			strconv.Itoa(row.Slot.OriginalOpenings),
			strconv.FormatBool(row.Slot.IsPublic),
			strconv.FormatBool(row.Slot.Blocked()),
			row.Slot.HeldReason,
			row.Slot.HeldComment,
			strconv.FormatBool(row.Slot.HeldAllDay),
			row.Slot.UnavailableReason,
			row.Slot.UnavailableComment,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
