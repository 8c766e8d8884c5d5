package availability_service

import "github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"

type proposalSlice []domain.ProposedAppointment

// quickSort сортирует предложения по времени начала, при равенстве -
// по идентификатору типа приема. Порядок нужен только для
// детерминированного вывода, контракт сверки его не требует.
func (s proposalSlice) quickSort() proposalSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2]

	// Разделяем слайс на три части
	less := proposalSlice{}
	equal := proposalSlice{}
	greater := proposalSlice{}

	for _, proposed := range s {
		switch compareProposals(proposed, pivot) {
		case -1:
			less = append(less, proposed)
		case 0:
			equal = append(equal, proposed)
		default:
			greater = append(greater, proposed)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}

func compareProposals(a, b domain.ProposedAppointment) int {
	if a.StartDateTime.Before(b.StartDateTime) {
		return -1
	}
	if a.StartDateTime.After(b.StartDateTime) {
		return 1
	}
	if a.DepartmentID != b.DepartmentID {
		if a.DepartmentID < b.DepartmentID {
			return -1
		}
		return 1
	}
	if a.AppointmentTypeID.String() < b.AppointmentTypeID.String() {
		return -1
	}
	if a.AppointmentTypeID.String() > b.AppointmentTypeID.String() {
		return 1
	}
	return 0
}
