package sales

import (
	"context"

	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos de ambos ledgers atados a ella.
// Es lo que mantiene venta y movimiento sincronizados en los flujos compuestos.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		partRepo repository.PartRepository,
		saleRepo repository.SaleRepository,
		serviceRepo repository.ServiceRepository,
	) error) error
}
