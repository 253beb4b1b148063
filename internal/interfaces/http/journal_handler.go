package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/hospital-contable/internal/application/dto"
	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
	"github.com/rs/zerolog"
)

// JournalHandler maneja los comprobantes contables (protegido).
type JournalHandler struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewJournalHandler construye el handler.
func NewJournalHandler(svc *ledger.Service, log zerolog.Logger) *JournalHandler {
	return &JournalHandler{svc: svc, log: log}
}

// Create registra un comprobante DRAFT en el periodo abierto con número consecutivo.
// @Summary      Crear comprobante
// @Tags         journal-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJournalEntryRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.JournalEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries [post]
func (h *JournalHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	in, reqErr := parseEntry(c)
	if reqErr != nil {
		return badRequest(c, reqErr.code, reqErr.message)
	}
	entry, err := h.svc.CreateEntry(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToJournalEntryResponse(entry))
}

// List lista comprobantes con filtros y paginación.
// @Summary      Listar comprobantes
// @Tags         journal-entries
// @Security     Bearer
// @Produce      json
// @Param        page       query  int     false  "Página"  default(1)
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        period_id  query  string  false  "Periodo"
// @Param        type       query  string  false  "DIARIO | AJUSTE | CIERRE | APERTURA"
// @Param        status     query  string  false  "DRAFT | PENDING | APPROVED | VOID"
// @Param        date_from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        date_to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        search     query  string  false  "Número o descripción"
// @Success      200        {object}  dto.JournalEntryListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries [get]
func (h *JournalHandler) List(c *fiber.Ctx) error {
	var q dto.ListJournalEntriesQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	if err := validateStruct(q); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	filter := repository.JournalEntryFilter{
		PeriodID: q.PeriodID,
		Type:     q.Type,
		Status:   q.Status,
		Search:   q.Search,
	}
	var err error
	if filter.DateFrom, err = parseOptionalDate(q.DateFrom); err != nil {
		return badRequest(c, "VALIDATION", "date_from: formato YYYY-MM-DD")
	}
	if filter.DateTo, err = parseOptionalDate(q.DateTo); err != nil {
		return badRequest(c, "VALIDATION", "date_to: formato YYYY-MM-DD")
	}

	page, err := h.svc.ListEntries(c.UserContext(), filter, q.Page, q.Limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.JournalEntryListResponse{
		Items: make([]dto.JournalEntryResponse, 0, len(page.Entries)),
		PageResponse: dto.PageResponse{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	}
	for _, e := range page.Entries {
		out.Items = append(out.Items, dto.ToJournalEntryResponse(e))
	}
	return c.JSON(out)
}

// GetByID devuelve el comprobante con líneas y periodo.
// @Summary      Obtener comprobante
// @Tags         journal-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.JournalEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries/{id} [get]
func (h *JournalHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToJournalEntryResponse(entry))
}

// Update reemplaza cabecera y líneas de un comprobante DRAFT.
// @Summary      Editar comprobante en borrador
// @Tags         journal-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del comprobante"
// @Param        body  body  dto.CreateJournalEntryRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.JournalEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries/{id} [put]
func (h *JournalHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	in, reqErr := parseEntry(c)
	if reqErr != nil {
		return badRequest(c, reqErr.code, reqErr.message)
	}
	entry, err := h.svc.UpdateDraft(c.UserContext(), c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToJournalEntryResponse(entry))
}

// Submit envía el comprobante a revisión.
// @Summary      Enviar a revisión
// @Tags         journal-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.JournalEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries/{id}/submit [post]
func (h *JournalHandler) Submit(c *fiber.Ctx) error {
	entry, err := h.svc.Submit(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToJournalEntryResponse(entry))
}

// Approve aprueba el comprobante. Requiere rol admin o contador.
// @Summary      Aprobar comprobante
// @Tags         journal-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.JournalEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries/{id}/approve [post]
func (h *JournalHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	entry, err := h.svc.Approve(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToJournalEntryResponse(entry))
}

// Void anula el comprobante con un motivo. Requiere rol admin o contador.
// @Summary      Anular comprobante
// @Tags         journal-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del comprobante"
// @Param        body  body  dto.VoidJournalEntryRequest  true  "Motivo"
// @Success      200   {object}  dto.JournalEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries/{id}/void [post]
func (h *JournalHandler) Void(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var req dto.VoidJournalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validateStruct(req); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	entry, err := h.svc.Void(c.UserContext(), c.Params("id"), userID, req.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToJournalEntryResponse(entry))
}

// Delete elimina un comprobante DRAFT.
// @Summary      Eliminar comprobante en borrador
// @Tags         journal-entries
// @Security     Bearer
// @Param        id   path  string  true  "ID del comprobante"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounting/journal-entries/{id} [delete]
func (h *JournalHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// requestError body o query rechazado antes de llegar al núcleo.
type requestError struct {
	code    string
	message string
}

func parseEntry(c *fiber.Ctx) (ledger.EntryInput, *requestError) {
	var req dto.CreateJournalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return ledger.EntryInput{}, &requestError{"INVALID_BODY", "cuerpo inválido"}
	}
	if err := validateStruct(req); err != nil {
		return ledger.EntryInput{}, &requestError{"VALIDATION", err.Error()}
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return ledger.EntryInput{}, &requestError{"VALIDATION", "date: formato YYYY-MM-DD"}
	}
	return toEntryInput(req, date), nil
}

func toEntryInput(req dto.CreateJournalEntryRequest, date *time.Time) ledger.EntryInput {
	in := ledger.EntryInput{
		Type:          req.Type,
		Description:   req.Description,
		OriginDocType: req.OriginDocType,
		OriginDocID:   req.OriginDocID,
		Lines:         make([]ledger.LineInput, 0, len(req.Lines)),
	}
	if date != nil {
		in.Date = *date
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, ledger.LineInput{
			AccountCode:    l.AccountCode,
			AccountName:    l.AccountName,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Description:    l.Description,
			ThirdPartyType: l.ThirdPartyType,
			ThirdPartyID:   l.ThirdPartyID,
			ThirdPartyName: l.ThirdPartyName,
			CostCenterID:   l.CostCenterID,
		})
	}
	return in
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
