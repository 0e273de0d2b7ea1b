package reports

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// FiscalSummaryGenerator construye el resumen fiscal diario en XML y lo firma
// si hay certificado configurado. La implementación vive en
// infrastructure/fiscal.
type FiscalSummaryGenerator interface {
	GenerateDailySummary(
		ctx context.Context,
		tenant *entity.Tenant,
		day time.Time,
		sales *dto.SalesReportDTO,
	) ([]byte, error)
}
