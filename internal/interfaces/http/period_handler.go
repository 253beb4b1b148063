package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/rs/zerolog"
)

// PeriodHandler consulta de periodos contables (protegido).
type PeriodHandler struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewPeriodHandler construye el handler.
func NewPeriodHandler(svc *ledger.Service, log zerolog.Logger) *PeriodHandler {
	return &PeriodHandler{svc: svc, log: log}
}

// GetOpen devuelve el periodo abierto donde se registran los comprobantes nuevos.
// @Summary      Periodo abierto
// @Tags         periods
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.AccountingPeriod
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounting/periods/open [get]
func (h *PeriodHandler) GetOpen(c *fiber.Ctx) error {
	period, err := h.svc.GetOpenPeriod(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(period)
}
