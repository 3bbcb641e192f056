package inventory

import "github.com/shopspring/decimal"

// Cost costo promedio ponderado de las entradas.
type Cost struct {
	Value decimal.Decimal
}

// Receive aplica la fórmula de costo promedio ponderado a una entrada:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func (c Cost) Receive(stock, qtyIn int, unitPrice decimal.Decimal) Cost {
	if stock < 0 {
		stock = 0
	}
	sum := decimal.NewFromInt(int64(stock + qtyIn))
	if sum.LessThanOrEqual(decimal.Zero) {
		return Cost{Value: decimal.Zero}
	}
	num := decimal.NewFromInt(int64(stock)).Mul(c.Value).Add(decimal.NewFromInt(int64(qtyIn)).Mul(unitPrice))
	return Cost{Value: num.Div(sum).Round(2)}
}
