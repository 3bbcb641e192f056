package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
	"github.com/jhoicas/refacciones-ledger/internal/domain/repository"
)

var (
	_ repository.PartRepository     = (*PartRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
)

const partColumns = `
	p.id, p.name, p.part_code, p.brand, p.category_id, COALESCE(c.name, ''), p.price, p.current_stock, p.updated_at
	FROM parts p LEFT JOIN categories c ON c.id = p.category_id`

// PartRepo implementación del puerto PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(&p.ID, &p.Name, &p.PartCode, &p.Brand, &p.CategoryID, &p.Category, &p.Price, &p.CurrentStock, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene una refacción por ID.
func (r *PartRepo) GetByID(ctx context.Context, id int64) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT`+partColumns+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// GetForUpdate bloquea la fila de la refacción hasta el fin de la transacción.
func (r *PartRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT`+partColumns+` WHERE p.id = $1 FOR UPDATE OF p`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConflict(err, "lock part", "part", id)
	}
	return p, nil
}

// UpdateStock escribe el stock derivado. El CHECK (current_stock >= 0) se traduce a ConflictError.
func (r *PartRepo) UpdateStock(ctx context.Context, id int64, stock int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE parts SET current_stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return mapConflict(err, "update part stock", "part", id)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("part", id)
	}
	return nil
}

// List lista refacciones por filtro, ordenadas por id.
func (r *PartRepo) List(ctx context.Context, f entity.PartFilter) ([]*entity.Part, error) {
	var args sqlArgs
	var conds []string
	if len(f.IDs) > 0 {
		conds = append(conds, "p.id = ANY("+args.next(f.IDs)+")")
	}
	if f.CategoryID != nil {
		conds = append(conds, "p.category_id = "+args.next(*f.CategoryID))
	}
	if s := searchCond(&args, f.Search, []string{"p.name", "p.part_code", "p.brand"}, "p.id"); s != "" {
		conds = append(conds, s)
	}
	query := `SELECT` + partColumns + where(conds) + ` ORDER BY p.id`
	if f.Limit > 0 {
		query += " LIMIT " + args.next(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + args.next(f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CategoryRepo categorías del catálogo.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// orderBy cláusula ORDER BY a partir de "campo" o "-campo", con el id como desempate en la misma
// dirección. Los campos fuera de la lista blanca caen en def.
func orderBy(ordering string, columns map[string]string, def, idCol string) string {
	dir := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		dir, field = "DESC", ordering[1:]
	}
	col, ok := columns[field]
	if !ok {
		col = def
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s %s", col, dir, idCol, dir)
}
