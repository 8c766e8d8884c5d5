package out

import (
	"context"

	"github.com/medbooking/ehr-schedule-reconciler/internal/core/domain"
)

// StoragePort - база приложения записи: каталог врачей на вход,
// результаты запуска на выход
type StoragePort interface {
	// Врачи с отделениями и типами приема, в порядке конфигурации
	LoadProviders(ctx context.Context) ([]domain.Provider, error)

	// Сохранение предложений и отказов одного запуска
	SaveRunReport(ctx context.Context, report *domain.RunReport) error
}
