package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/search"
)

// Códigos SQLSTATE que indican una carrera entre escritores.
const (
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// mapConflict traduce CHECK (current_stock >= 0), fallas de serialización y deadlocks a
// ConflictError (reintentable). Cualquier otro error se envuelve con op.
func mapConflict(err error, op, resource string, id int64) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCheckViolation, pgSerializationFailure, pgDeadlockDetected:
			return &domain.ConflictError{Resource: resource, ID: id, Cause: err}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// sqlArgs acumula argumentos posicionales: next agrega v y devuelve su placeholder ($n).
type sqlArgs []any

func (a *sqlArgs) next(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// where une condiciones con AND; vacío si no hay ninguna.
func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// searchCond condición de búsqueda libre: el término (ya normalizado) contra ledger_norm(col) de
// cada columna de texto, o igualdad contra las columnas id si el término es numérico.
// Devuelve "" si el término está vacío.
func searchCond(args *sqlArgs, term string, textCols []string, idCols ...string) string {
	if term == "" {
		return ""
	}
	var ors []string
	if len(textCols) > 0 {
		p := args.next("%" + escapeLike(term) + "%")
		for _, c := range textCols {
			ors = append(ors, fmt.Sprintf("ledger_norm(%s) LIKE %s", c, p))
		}
	}
	if id, ok := search.ID(term); ok && len(idCols) > 0 {
		p := args.next(id)
		for _, c := range idCols {
			ors = append(ors, fmt.Sprintf("%s = %s", c, p))
		}
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
