package domain

// FilterMode - режим подбора типов приема для врача.
// Выбирается один раз при загрузке каталога, не на каждый вызов.
type FilterMode string

const (
	// Явный запрос в МИС по каждому типу визита
	FilterModeVisitType FilterMode = "visit-type"
	// Один запрос на отделение, типы приема выводятся по длительности слота
	FilterModeDuration FilterMode = "duration"
)

type Department struct {
	ID     string `json:"id"`
	IDType string `json:"idType"`
	Name   string `json:"name"`
}

// Provider - врач с его отделениями и каталогом типов приема
type Provider struct {
	ID               string            `json:"id"`
	IDType           string            `json:"idType"`
	Name             string            `json:"name"`
	TimeZone         string            `json:"timeZone"`
	FilterMode       FilterMode        `json:"filterMode"`
	Departments      []Department      `json:"departments"`
	AppointmentTypes []AppointmentType `json:"appointmentTypes"`
}
