package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `
	m.id, m.part_id, m.type, m.quantity, m.unit_price, m.created_at, m.related_sale_id,
	m.reason, m.notes, m.stock_before, m.stock_after, m.transaction_id, m.created_by`

// movementOrderColumns lista blanca de campos ordenables.
var movementOrderColumns = map[string]string{
	"fecha":           "m.created_at",
	"cantidad":        "m.quantity",
	"precio_unitario": "COALESCE(m.unit_price, 0)",
}

// MovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento y asigna su ID.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (part_id, type, quantity, unit_price, created_at, related_sale_id,
			reason, notes, stock_before, stock_after, transaction_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.PartID, string(m.Type), m.Quantity, m.UnitPrice, m.Timestamp, m.RelatedSaleID,
		m.Reason, m.Notes, m.StockBefore, m.StockAfter, m.TransactionID, m.CreatedBy,
	).Scan(&m.ID)
	if err != nil {
		return mapConflict(err, "create inventory movement", "part", m.PartID)
	}
	return nil
}

// List lista movimientos filtrados y el total sin paginar.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, int, error) {
	var args sqlArgs
	var conds []string
	if f.PartID != nil {
		conds = append(conds, "m.part_id = "+args.next(*f.PartID))
	}
	if f.CategoryID != nil {
		conds = append(conds, "p.category_id = "+args.next(*f.CategoryID))
	}
	if f.From != nil {
		conds = append(conds, "m.created_at >= "+args.next(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "m.created_at < "+args.next(*f.To))
	}
	if s := searchCond(&args, f.Search, []string{"p.name", "p.part_code"}, "m.part_id"); s != "" {
		conds = append(conds, s)
	}
	from := ` FROM inventory_movements m JOIN parts p ON p.id = m.part_id` + where(conds)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT` + movementColumns + from + orderBy(f.Ordering, movementOrderColumns, "m.created_at", "m.id")
	if f.Limit > 0 {
		query += " LIMIT " + args.next(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + args.next(f.Offset)
	}
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByPart historial completo de una refacción en orden cronológico.
func (r *MovementRepo) ListByPart(ctx context.Context, partID int64) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT`+movementColumns+`
		FROM inventory_movements m WHERE m.part_id = $1 ORDER BY m.created_at, m.id`, partID)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var typ string
	err := row.Scan(&m.ID, &m.PartID, &typ, &m.Quantity, &m.UnitPrice, &m.Timestamp, &m.RelatedSaleID,
		&m.Reason, &m.Notes, &m.StockBefore, &m.StockAfter, &m.TransactionID, &m.CreatedBy)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	return &m, nil
}
