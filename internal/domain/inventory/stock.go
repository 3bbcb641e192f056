package inventory

import (
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// Apply calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// Es la única rutina que decide si un movimiento es aceptable: cantidad positiva, tipo conocido
// y, para salidas, cantidad <= stock actual. Nunca recorta la cantidad.
func Apply(partID int64, current int, t entity.MovementType, quantity int) (int, error) {
	if !t.Valid() {
		return current, domain.Invalid("type", t, "one_of")
	}
	if quantity <= 0 {
		return current, domain.Invalid("quantity", quantity, "positive")
	}
	if current < 0 {
		return current, domain.Invalid("current_stock", current, "non_negative")
	}
	if t == entity.MovementExit && quantity > current {
		return current, &domain.InsufficientStockError{PartID: partID, Requested: quantity, Available: current}
	}
	return current + t.Sign()*quantity, nil
}

// ReplayResult resultado de reconstruir el stock a partir del historial.
type ReplayResult struct {
	Stock       int
	Entries     int // suma de cantidades ENTRY
	Exits       int // suma de cantidades EXIT
	Returns     int // suma de cantidades RETURN
	Applied     int // movimientos aplicados antes de detenerse
	AverageCost Cost
}

// Replay reconstruye el stock aplicando los movimientos en el orden dado (orden de timestamp).
// Se detiene en el primer prefijo que dejaría el stock negativo y devuelve ese error junto con
// el resultado parcial.
func Replay(partID int64, movements []*entity.Movement) (ReplayResult, error) {
	var res ReplayResult
	for _, m := range movements {
		next, err := Apply(partID, res.Stock, m.Type, m.Quantity)
		if err != nil {
			return res, err
		}
		if m.Type == entity.MovementEntry && m.UnitPrice != nil {
			res.AverageCost = res.AverageCost.Receive(res.Stock, m.Quantity, *m.UnitPrice)
		}
		switch m.Type {
		case entity.MovementEntry:
			res.Entries += m.Quantity
		case entity.MovementExit:
			res.Exits += m.Quantity
		case entity.MovementReturn:
			res.Returns += m.Quantity
		}
		res.Stock = next
		res.Applied++
	}
	return res, nil
}
