// Package analytics contiene el motor de agregación: estadísticas por período, series temporales
// por día o mes, ranking de categorías y el dashboard.
package analytics

import (
	"time"

	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
	"github.com/jhoicas/refacciones-ledger/pkg/logger"
)

// UseCase agrega el ledger bajo demanda. Todo se calcula a partir de lo persistido; no hay
// acumuladores incrementales.
type UseCase struct {
	analyticsRepo repository.AnalyticsRepository
	movRepo       repository.MovementRepository
	partRepo      repository.PartRepository
	log           *logger.Logger
	now           func() time.Time
	loc           *time.Location
}

// Option configura el caso de uso.
type Option func(*UseCase)

// WithClock reemplaza el reloj (fecha por defecto de los períodos).
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// WithLocation zona horaria en la que se cortan días y meses.
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCase) { uc.loc = loc }
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	analyticsRepo repository.AnalyticsRepository,
	movRepo repository.MovementRepository,
	partRepo repository.PartRepository,
	log *logger.Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		analyticsRepo: analyticsRepo,
		movRepo:       movRepo,
		partRepo:      partRepo,
		log:           log.Named("analytics"),
		now:           time.Now,
		loc:           time.Local,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}
