package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const (
	salePartColumns = `id, part_id, part_name, brand_name, quantity, unit_price, total, user_id, sale_date, transaction_id`

	saleServiceColumns = `id, service_id, device_label, labor_cost, parts_cost, total, observations, technician,
		warranty_days, payment_status, parts, user_id, sale_date`

	returnColumns = `id, related_sale_id, part_id, part_name, quantity, unit_price, total, reason, user_id, sale_date, transaction_id`
)

// SaleRepo ledger de ventas sobre PostgreSQL: sale_parts, sale_services y sale_returns.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// CreatePartSale persiste una venta de refacción y asigna su ID.
func (r *SaleRepo) CreatePartSale(ctx context.Context, s *entity.SalePart) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sale_parts (part_id, part_name, brand_name, quantity, unit_price, total, user_id, sale_date, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		s.PartID, s.PartName, s.BrandName, s.Quantity, s.UnitPrice, s.Total, s.UserID, s.SaleDate, s.TransactionID,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("create part sale: %w", err)
	}
	return nil
}

// CreateServiceSale persiste una venta de servicio (desglose en JSONB) y asigna su ID.
func (r *SaleRepo) CreateServiceSale(ctx context.Context, s *entity.SaleService) error {
	parts := s.Parts
	if parts == nil {
		parts = []entity.ServicePart{}
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO sale_services (service_id, device_label, labor_cost, parts_cost, total, observations, technician,
			warranty_days, payment_status, parts, user_id, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		s.ServiceID, s.DeviceLabel, s.LaborCost, s.PartsCost, s.Total, s.Observations, s.Technician,
		s.WarrantyDays, string(s.PaymentStatus), parts, s.UserID, s.SaleDate,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("create service sale: %w", err)
	}
	return nil
}

// CreateReturn persiste una devolución y asigna su ID.
func (r *SaleRepo) CreateReturn(ctx context.Context, rt *entity.Return) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sale_returns (related_sale_id, part_id, part_name, quantity, unit_price, total, reason, user_id, sale_date, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		rt.RelatedSaleID, rt.PartID, rt.PartName, rt.Quantity, rt.UnitPrice, rt.Total, rt.Reason, rt.UserID, rt.SaleDate, rt.TransactionID,
	).Scan(&rt.ID)
	if err != nil {
		return fmt.Errorf("create return: %w", err)
	}
	return nil
}

// GetPartSale obtiene una venta de refacción por ID.
func (r *SaleRepo) GetPartSale(ctx context.Context, id int64) (*entity.SalePart, error) {
	s, err := scanPartSale(r.q.QueryRow(ctx, `SELECT `+salePartColumns+` FROM sale_parts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part sale: %w", err)
	}
	return s, nil
}

// SumReturnsForSale suma las devoluciones registradas contra una venta de refacción.
func (r *SaleRepo) SumReturnsForSale(ctx context.Context, saleID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM sale_returns WHERE related_sale_id = $1`, saleID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sum returns for sale: %w", err)
	}
	return n, nil
}

func (r *SaleRepo) ListPartSales(ctx context.Context, f entity.SaleFilter) ([]*entity.SalePart, int, error) {
	return listSales(ctx, r.q, "sale_parts", salePartColumns, f,
		[]string{"part_name", "brand_name"}, []string{"id", "part_id"}, scanPartSale)
}

func (r *SaleRepo) ListServiceSales(ctx context.Context, f entity.SaleFilter) ([]*entity.SaleService, int, error) {
	return listSales(ctx, r.q, "sale_services", saleServiceColumns, f,
		[]string{"device_label", "technician"}, []string{"id", "service_id"}, scanServiceSale)
}

func (r *SaleRepo) ListReturns(ctx context.Context, f entity.SaleFilter) ([]*entity.Return, int, error) {
	return listSales(ctx, r.q, "sale_returns", returnColumns, f,
		[]string{"part_name"}, []string{"id", "part_id"}, scanReturn)
}

// listSales consulta común a las tres tablas: ventana [From, To), búsqueda y orden sale_date DESC, id DESC.
func listSales[T any](
	ctx context.Context,
	q Querier,
	table, columns string,
	f entity.SaleFilter,
	textCols, idCols []string,
	scan func(pgx.Row) (T, error),
) ([]T, int, error) {
	var args sqlArgs
	var conds []string
	if f.From != nil {
		conds = append(conds, "sale_date >= "+args.next(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "sale_date < "+args.next(*f.To))
	}
	if s := searchCond(&args, f.Search, textCols, idCols...); s != "" {
		conds = append(conds, s)
	}
	from := " FROM " + table + where(conds)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table, err)
	}

	query := `SELECT ` + columns + from + ` ORDER BY sale_date DESC, id DESC`
	if f.Limit > 0 {
		query += " LIMIT " + args.next(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + args.next(f.Offset)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	list := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", table, err)
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}
	return list, total, nil
}

func scanPartSale(row pgx.Row) (*entity.SalePart, error) {
	var s entity.SalePart
	err := row.Scan(&s.ID, &s.PartID, &s.PartName, &s.BrandName, &s.Quantity, &s.UnitPrice, &s.Total,
		&s.UserID, &s.SaleDate, &s.TransactionID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanServiceSale(row pgx.Row) (*entity.SaleService, error) {
	var s entity.SaleService
	var status string
	err := row.Scan(&s.ID, &s.ServiceID, &s.DeviceLabel, &s.LaborCost, &s.PartsCost, &s.Total, &s.Observations,
		&s.Technician, &s.WarrantyDays, &status, &s.Parts, &s.UserID, &s.SaleDate)
	if err != nil {
		return nil, err
	}
	s.PaymentStatus = entity.PaymentStatus(status)
	return &s, nil
}

func scanReturn(row pgx.Row) (*entity.Return, error) {
	var rt entity.Return
	err := row.Scan(&rt.ID, &rt.RelatedSaleID, &rt.PartID, &rt.PartName, &rt.Quantity, &rt.UnitPrice, &rt.Total,
		&rt.Reason, &rt.UserID, &rt.SaleDate, &rt.TransactionID)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}
