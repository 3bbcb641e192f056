// Package sales contiene las reglas de montos de las ventas (servicio de dominio, sin I/O).
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// MoneyScale decimales que admiten las columnas de montos (NUMERIC(12,2)).
const MoneyScale = 2

// ValidateMoney rechaza montos negativos o con más de MoneyScale decimales: la base los
// redondearía y lo guardado no coincidiría con lo devuelto.
func ValidateMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, v.String(), "non_negative")
	}
	if !v.Equal(v.Round(MoneyScale)) {
		return &domain.ValidationError{Field: field, Value: v.String(), Rule: "scale", Limit: MoneyScale}
	}
	return nil
}

// PartSaleTotal total = cantidad * precio unitario, salvo que se indique un total explícito
// (ajuste de redondeo), que se respeta tal cual.
func PartSaleTotal(quantity int, unitPrice decimal.Decimal, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, domain.Invalid("quantity", quantity, "positive")
	}
	if err := ValidateMoney("unit_price", unitPrice); err != nil {
		return decimal.Zero, err
	}
	if explicit != nil {
		if err := ValidateMoney("total", *explicit); err != nil {
			return decimal.Zero, err
		}
		return *explicit, nil
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// LineTotal total de una línea del desglose: el explícito si viene, si no cantidad * precio.
func LineTotal(p entity.ServicePart) decimal.Decimal {
	if !p.Total.IsZero() {
		return p.Total
	}
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// BreakdownSum suma los totales del desglose y devuelve las líneas con Total resuelto.
func BreakdownSum(parts []entity.ServicePart) (decimal.Decimal, []entity.ServicePart, error) {
	sum := decimal.Zero
	out := make([]entity.ServicePart, 0, len(parts))
	for i, p := range parts {
		if p.Quantity < 0 {
			return decimal.Zero, nil, &domain.ValidationError{Field: "parts.quantity", Value: p.Quantity, Rule: "non_negative", Limit: i}
		}
		if p.Price.IsNegative() || p.Total.IsNegative() {
			return decimal.Zero, nil, &domain.ValidationError{Field: "parts.price", Value: p.Price.String(), Rule: "non_negative", Limit: i}
		}
		p.Total = LineTotal(p)
		sum = sum.Add(p.Total)
		out = append(out, p)
	}
	return sum, out, nil
}

// ServiceCosts montos resueltos de una venta de servicio.
type ServiceCosts struct {
	LaborCost decimal.Decimal
	PartsCost decimal.Decimal
	Total     decimal.Decimal
	Parts     []entity.ServicePart
	// BreakdownSum suma del desglose; Mismatch indica que PartsCost explícito no coincide con ella.
	BreakdownSum decimal.Decimal
	Mismatch     bool
}

// ResolveServiceCosts aplica los valores por defecto de una venta de servicio:
// partsCost omitido o cero se deriva del desglose; total omitido = labor + partsCost.
// La diferencia entre partsCost explícito y el desglose es informativa (Mismatch), no un error.
func ResolveServiceCosts(labor decimal.Decimal, partsCost *decimal.Decimal, parts []entity.ServicePart, total *decimal.Decimal) (ServiceCosts, error) {
	if err := ValidateMoney("labor_cost", labor); err != nil {
		return ServiceCosts{}, err
	}
	if partsCost != nil {
		if err := ValidateMoney("parts_cost", *partsCost); err != nil {
			return ServiceCosts{}, err
		}
	}
	if total != nil {
		if err := ValidateMoney("total", *total); err != nil {
			return ServiceCosts{}, err
		}
	}
	sum, lines, err := BreakdownSum(parts)
	if err != nil {
		return ServiceCosts{}, err
	}
	res := ServiceCosts{LaborCost: labor, Parts: lines, BreakdownSum: sum}
	switch {
	case partsCost == nil || partsCost.IsZero():
		res.PartsCost = sum
	default:
		res.PartsCost = *partsCost
		res.Mismatch = len(lines) > 0 && !partsCost.Equal(sum)
	}
	// el desglose se guarda tal cual; su suma derivada debe caber en parts_cost
	if err := ValidateMoney("parts_cost", res.PartsCost); err != nil {
		return ServiceCosts{}, err
	}
	if total != nil {
		res.Total = *total
	} else {
		res.Total = labor.Add(res.PartsCost)
	}
	return res, nil
}
