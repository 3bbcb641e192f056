package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refacciones-ledger/internal/application/dto"
	"github.com/jhoicas/refacciones-ledger/internal/application/ledger"
	"github.com/jhoicas/refacciones-ledger/internal/application/report"
	"github.com/jhoicas/refacciones-ledger/internal/domain"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

// LedgerHandler feed unificado de ventas y su exportación.
type LedgerHandler struct {
	query    *ledger.QueryUseCase
	exporter *report.Exporter
	encoders map[string]report.Encoder
	loc      *time.Location
}

// NewLedgerHandler construye el handler. encoders: formato (csv, xlsx) -> serializador.
func NewLedgerHandler(query *ledger.QueryUseCase, exporter *report.Exporter, encoders map[string]report.Encoder, loc *time.Location) *LedgerHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerHandler{query: query, exporter: exporter, encoders: encoders, loc: loc}
}

// Query godoc
// @Summary      Feed unificado de ventas
// @Description  Ventas de refacción, de servicio y devoluciones, más reciente primero.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        page       query  int     false  "Página (1..)"
// @Param        page_size  query  int     false  "máx. 100"
// @Param        tipo       query  string  false  "refaccion | servicio | devolucion"
// @Param        search     query  string  false  "id, refacción, marca, dispositivo o técnico"
// @Param        from       query  string  false  "YYYY-MM-DD o RFC3339 (inclusivo)"
// @Param        to         query  string  false  "YYYY-MM-DD o RFC3339 (exclusivo)"
// @Success      200  {object}  dto.LedgerPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *LedgerHandler) Query(c *fiber.Ctx) error {
	q, ok, err := h.parseQuery(c)
	if !ok {
		return err
	}
	page, err := h.query.QueryLedger(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LedgerPageResponse{
		Results:  dto.SalesFromEntities(page.Results),
		Count:    page.Count,
		Next:     page.Next,
		Previous: page.Previous,
	})
}

// Export godoc
// @Summary      Exportar el feed filtrado
// @Description  Recorre todas las páginas; si alguna falla responde 502 en vez de un archivo truncado.
// @Tags         ledger
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv (default) | xlsx"
// @Param        tipo    query  string  false  "refaccion | servicio | devolucion"
// @Param        search  query  string  false  "búsqueda"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/ledger/export [get]
func (h *LedgerHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "csv"))
	enc, found := h.encoders[format]
	if !found {
		return writeError(c, domain.Invalid("format", format, "one_of"))
	}
	q, ok, err := h.parseQuery(c)
	if !ok {
		return err
	}
	out, err := h.exporter.ExportAll(c.Context(), q, enc)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	return c.Send(out.Data)
}

func (h *LedgerHandler) parseQuery(c *fiber.Ctx) (ledger.LedgerQuery, bool, error) {
	var req dto.LedgerQueryRequest
	if ok, err := bindQuery(c, &req); !ok {
		return ledger.LedgerQuery{}, false, err
	}
	from, err := queryTime(c, "from", h.loc)
	if err != nil {
		return ledger.LedgerQuery{}, false, writeError(c, err)
	}
	to, err := queryTime(c, "to", h.loc)
	if err != nil {
		return ledger.LedgerQuery{}, false, writeError(c, err)
	}
	return ledger.LedgerQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		Kind:     entity.SaleKind(req.Tipo),
		Search:   req.Search,
		From:     from,
		To:       to,
	}, true, nil
}
