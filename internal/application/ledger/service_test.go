package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
	"github.com/jhoicas/hospital-contable/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func openPeriod2025() *entity.AccountingPeriod {
	return &entity.AccountingPeriod{
		ID:        uuid.New().String(),
		Label:     "2025",
		Year:      2025,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:    entity.PeriodStatusOpen,
	}
}

// balanced arma un comprobante de dos líneas por amount.
func balanced(amount string) ledger.EntryInput {
	return ledger.EntryInput{
		Description: "Recaudo consulta externa",
		Lines: []ledger.LineInput{
			{AccountCode: "110505", AccountName: "Caja general", Debit: decimal.RequireFromString(amount)},
			{AccountCode: "417005", AccountName: "Ingresos consulta externa", Credit: decimal.RequireFromString(amount)},
		},
	}
}

func newService(store *memory.Store, seq ledger.SequenceGenerator) *ledger.Service {
	svc := ledger.NewService(store, store.Periods(), store.Entries(), seq, ledger.Config{
		Prefix:       "AC",
		MaxAttempts:  3,
		WriteTimeout: 5 * time.Second,
	}, zerolog.Nop())
	svc.WithNow(func() time.Time { return fixedNow })
	return svc
}

// ──────────────────────────────────────────────────────────────────────────────
// Suite sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type LedgerSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	period *entity.AccountingPeriod
	svc    *ledger.Service
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.period = openPeriod2025()
	s.store.AddPeriod(s.period)
	s.svc = newService(s.store, ledger.LookupSequence{})
}

func (s *LedgerSuite) create(in ledger.EntryInput) *entity.JournalEntry {
	e, err := s.svc.CreateEntry(s.ctx, "user-creator", in)
	s.Require().NoError(err)
	return e
}

func (s *LedgerSuite) countEntries() int {
	page, err := s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{}, 1, 100)
	s.Require().NoError(err)
	return page.Total
}

func (s *LedgerSuite) requireKind(err error, kind error, message string) {
	s.Require().Error(err)
	s.True(errors.Is(err, kind), "se esperaba %v, llegó %v", kind, err)
	if message != "" {
		s.Equal(message, err.Error())
	}
}

func (s *LedgerSuite) TestEscenariosDelLibroDiario() {
	// 1. Primer comprobante del año.
	first := s.create(balanced("1000"))
	s.Equal("AC-2025-00001", first.Number)
	s.Equal(entity.EntryStatusDraft, first.Status)
	s.Equal(s.period.ID, first.PeriodID)

	// 2. Segundo comprobante del mismo año.
	second := s.create(balanced("250"))
	s.Equal("AC-2025-00002", second.Number)

	// 3. Descuadrado: falla y no persiste nada.
	_, err := s.svc.CreateEntry(s.ctx, "user-creator", ledger.EntryInput{Lines: []ledger.LineInput{
		{AccountCode: "110505", Debit: decimal.NewFromInt(100)},
		{AccountCode: "417005", Credit: decimal.NewFromInt(50)},
	}})
	s.requireKind(err, domain.ErrValidation, "unbalanced entry: debit=100 credit=50")
	s.Equal(2, s.countEntries())

	// 4. Aprobación.
	approved, err := s.svc.Approve(s.ctx, first.ID, "user-A")
	s.Require().NoError(err)
	s.Equal(entity.EntryStatusApproved, approved.Status)
	s.Equal("user-A", approved.ApprovedBy)
	s.Require().NotNil(approved.ApprovedAt)
	s.True(approved.ApprovedAt.Equal(fixedNow))

	// 5. Anulación y segundo intento.
	voided, err := s.svc.Void(s.ctx, first.ID, "user-B", "digitación errónea")
	s.Require().NoError(err)
	s.Equal(entity.EntryStatusVoid, voided.Status)
	s.Equal("digitación errónea", voided.VoidReason)
	s.Equal("user-B", voided.VoidedBy)
	s.Equal("user-A", voided.ApprovedBy, "la anulación conserva la aprobación")

	_, err = s.svc.Void(s.ctx, first.ID, "user-B", "otra vez")
	s.requireKind(err, domain.ErrValidation, "entry already void")

	// 6. Eliminación de un DRAFT con sus líneas.
	s.Require().NoError(s.svc.Delete(s.ctx, second.ID, "user-creator"))
	_, err = s.svc.GetByID(s.ctx, second.ID)
	s.requireKind(err, domain.ErrNotFound, "journal entry not found")
	lines, err := s.store.Entries().GetLines(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Empty(lines)
}

func (s *LedgerSuite) TestCreateEntry_TotalesYOrdenDeLineas() {
	in := ledger.EntryInput{
		Date: time.Date(2025, 2, 3, 15, 30, 0, 0, time.UTC),
		Type: "ajuste",
		Lines: []ledger.LineInput{
			{AccountCode: "510506", Debit: decimal.RequireFromString("300.10")},
			{AccountCode: "510527", Debit: decimal.RequireFromString("199.90")},
			{AccountCode: "250505", Credit: decimal.RequireFromString("500"), ThirdPartyType: "EMPLEADO", ThirdPartyID: "emp-9"},
		},
		OriginDocType: "NOMINA",
		OriginDocID:   "NOM-2025-02",
	}
	created := s.create(in)

	got, err := s.svc.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(entity.EntryTypeAjuste, got.Type)
	s.True(got.TotalDebit.Equal(decimal.NewFromInt(500)))
	s.True(got.TotalCredit.Equal(decimal.NewFromInt(500)))
	s.Equal(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), got.Date)
	s.Equal("NOMINA", got.OriginDocType)
	s.Equal("NOM-2025-02", got.OriginDocID)
	s.Require().NotNil(got.Period)
	s.Equal("2025", got.Period.Label)

	s.Require().Len(got.Lines, 3)
	for i, code := range []string{"510506", "510527", "250505"} {
		s.Equal(code, got.Lines[i].AccountCode)
		s.Equal(i, got.Lines[i].LineOrder)
		s.Equal(created.ID, got.Lines[i].EntryID)
	}
	s.Equal("emp-9", got.Lines[2].ThirdPartyID)
}

func (s *LedgerSuite) TestCreateEntry_FechaPorDefecto() {
	e := s.create(balanced("10"))
	s.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), e.Date)
	s.Equal("user-creator", e.CreatedBy)
	s.True(e.CreatedAt.Equal(fixedNow))
}

func (s *LedgerSuite) TestCreateEntry_SinPeriodoAbierto() {
	store := memory.NewStore()
	closed := openPeriod2025()
	closed.Status = entity.PeriodStatusClosed
	store.AddPeriod(closed)
	svc := newService(store, ledger.LookupSequence{})

	_, err := svc.CreateEntry(s.ctx, "user-creator", balanced("100"))
	s.requireKind(err, domain.ErrValidation, "no open period")

	page, err := svc.ListEntries(s.ctx, repository.JournalEntryFilter{}, 1, 20)
	s.Require().NoError(err)
	s.Zero(page.Total)
}

func (s *LedgerSuite) TestCreateEntry_ValidacionAntesDeEscribir() {
	_, err := s.svc.CreateEntry(s.ctx, "u", ledger.EntryInput{Lines: []ledger.LineInput{
		{AccountCode: "110505", Debit: decimal.NewFromInt(1)},
	}})
	s.requireKind(err, domain.ErrValidation, "insufficient lines")

	in := balanced("1")
	in.Type = "NOMINA"
	_, err = s.svc.CreateEntry(s.ctx, "u", in)
	s.requireKind(err, domain.ErrValidation, "invalid entry type")

	in = balanced("1")
	in.Lines[1].AccountCode = ""
	_, err = s.svc.CreateEntry(s.ctx, "u", in)
	s.requireKind(err, domain.ErrValidation, "line 2: account code required")

	s.Zero(s.countEntries())
}

func (s *LedgerSuite) TestCreateEntry_MontosSeRedondeanADosDecimales() {
	in := ledger.EntryInput{Lines: []ledger.LineInput{
		{AccountCode: "110505", Debit: decimal.RequireFromString("10.004")},
		{AccountCode: "417005", Credit: decimal.RequireFromString("10.001")},
	}}
	e := s.create(in)
	s.Equal("10", e.TotalDebit.String())
	s.Equal("10", e.TotalCredit.String())
}

func (s *LedgerSuite) TestCreateEntry_ContextoCanceladoNoPersiste() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.svc.CreateEntry(ctx, "u", balanced("1"))
	s.Require().Error(err)
	s.True(errors.Is(err, context.Canceled))
	s.Zero(s.countEntries())
}

func (s *LedgerSuite) TestSubmit_YAprobacionDesdePending() {
	e := s.create(balanced("80"))

	pending, err := s.svc.Submit(s.ctx, e.ID, "user-creator")
	s.Require().NoError(err)
	s.Equal(entity.EntryStatusPending, pending.Status)
	s.Len(pending.Lines, 2)

	_, err = s.svc.Submit(s.ctx, e.ID, "user-creator")
	s.requireKind(err, domain.ErrValidation, "entry not in DRAFT")

	approved, err := s.svc.Approve(s.ctx, e.ID, "user-A")
	s.Require().NoError(err)
	s.Equal(entity.EntryStatusApproved, approved.Status)

	_, err = s.svc.Approve(s.ctx, e.ID, "user-A")
	s.requireKind(err, domain.ErrValidation, "entry not in DRAFT/PENDING")
}

func (s *LedgerSuite) TestApprove_SobreVoidNoModifica() {
	e := s.create(balanced("40"))
	_, err := s.svc.Void(s.ctx, e.ID, "user-B", "duplicado")
	s.Require().NoError(err)
	before, err := s.svc.GetByID(s.ctx, e.ID)
	s.Require().NoError(err)

	_, err = s.svc.Approve(s.ctx, e.ID, "user-A")
	s.requireKind(err, domain.ErrValidation, "entry not in DRAFT/PENDING")

	after, err := s.svc.GetByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(before, after)
	s.Empty(after.ApprovedBy)
}

func (s *LedgerSuite) TestDelete_SoloDraft() {
	approved := s.create(balanced("70"))
	_, err := s.svc.Approve(s.ctx, approved.ID, "user-A")
	s.Require().NoError(err)
	voided := s.create(balanced("71"))
	_, err = s.svc.Void(s.ctx, voided.ID, "user-B", "error")
	s.Require().NoError(err)

	for _, id := range []string{approved.ID, voided.ID} {
		err := s.svc.Delete(s.ctx, id, "user-creator")
		s.requireKind(err, domain.ErrValidation, "only DRAFT entries can be deleted")

		kept, err := s.svc.GetByID(s.ctx, id)
		s.Require().NoError(err)
		s.Len(kept.Lines, 2)
	}
}

func (s *LedgerSuite) TestIdInexistente() {
	missing := uuid.New().String()
	_, err := s.svc.Approve(s.ctx, missing, "user-A")
	s.requireKind(err, domain.ErrNotFound, "journal entry not found")
	_, err = s.svc.Void(s.ctx, missing, "user-A", "x")
	s.requireKind(err, domain.ErrNotFound, "journal entry not found")
	_, err = s.svc.Submit(s.ctx, missing, "user-A")
	s.requireKind(err, domain.ErrNotFound, "journal entry not found")
	err = s.svc.Delete(s.ctx, missing, "user-A")
	s.requireKind(err, domain.ErrNotFound, "journal entry not found")
	_, err = s.svc.UpdateDraft(s.ctx, missing, "user-A", balanced("1"))
	s.requireKind(err, domain.ErrNotFound, "journal entry not found")
}

func (s *LedgerSuite) TestUpdateDraft() {
	e := s.create(balanced("100"))

	edited, err := s.svc.UpdateDraft(s.ctx, e.ID, "user-creator", ledger.EntryInput{
		Description: "Corrección de cuentas",
		Type:        entity.EntryTypeAjuste,
		Lines: []ledger.LineInput{
			{AccountCode: "110505", Debit: decimal.NewFromInt(60)},
			{AccountCode: "111005", Debit: decimal.NewFromInt(60)},
			{AccountCode: "417005", Credit: decimal.NewFromInt(120)},
		},
	})
	s.Require().NoError(err)
	s.Equal(e.Number, edited.Number, "el número no cambia")
	s.Equal(e.PeriodID, edited.PeriodID)
	s.True(edited.TotalDebit.Equal(decimal.NewFromInt(120)))

	got, err := s.svc.GetByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("Corrección de cuentas", got.Description)
	s.Require().Len(got.Lines, 3)
	s.Equal("111005", got.Lines[1].AccountCode)

	_, err = s.svc.UpdateDraft(s.ctx, e.ID, "user-creator", ledger.EntryInput{Lines: []ledger.LineInput{
		{AccountCode: "110505", Debit: decimal.NewFromInt(1)},
		{AccountCode: "417005", Credit: decimal.NewFromInt(2)},
	}})
	s.requireKind(err, domain.ErrValidation, "unbalanced entry: debit=1 credit=2")

	_, err = s.svc.Submit(s.ctx, e.ID, "user-creator")
	s.Require().NoError(err)
	_, err = s.svc.UpdateDraft(s.ctx, e.ID, "user-creator", balanced("5"))
	s.requireKind(err, domain.ErrValidation, "only DRAFT entries can be edited")

	after, err := s.svc.GetByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Len(after.Lines, 3, "las líneas no cambian fuera de DRAFT")
}

func (s *LedgerSuite) TestListEntries_OrdenFiltrosYPaginacion() {
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

	jan := balanced("10")
	jan.Date = day(1, 10)
	jan.Description = "Pago FARMACIA central"
	e1 := s.create(jan)

	feb := balanced("20")
	feb.Date = day(2, 1)
	e2 := s.create(feb)

	feb2 := balanced("30")
	feb2.Date = day(2, 1)
	feb2.Type = entity.EntryTypeAjuste
	e3 := s.create(feb2)

	_, err := s.svc.Approve(s.ctx, e2.ID, "user-A")
	s.Require().NoError(err)

	page, err := s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{}, 0, 0)
	s.Require().NoError(err)
	s.Equal(3, page.Total)
	s.Equal(1, page.Page)
	s.Equal(20, page.Limit)
	s.Equal(1, page.TotalPages)
	s.Require().Len(page.Entries, 3)
	s.Equal([]string{e3.Number, e2.Number, e1.Number},
		[]string{page.Entries[0].Number, page.Entries[1].Number, page.Entries[2].Number})
	for _, e := range page.Entries {
		s.Len(e.Lines, 2)
		s.Require().NotNil(e.Period)
	}

	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{Status: entity.EntryStatusApproved}, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal(e2.ID, page.Entries[0].ID)

	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{Type: entity.EntryTypeAjuste}, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal(e3.ID, page.Entries[0].ID)

	from, to := day(1, 1), day(1, 31)
	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{DateFrom: &from, DateTo: &to}, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal(e1.ID, page.Entries[0].ID)

	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{Search: "farmacia"}, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal(e1.ID, page.Entries[0].ID)

	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{Search: "ac-2025-00002"}, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal(e2.ID, page.Entries[0].ID)

	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{PeriodID: s.period.ID}, 2, 2)
	s.Require().NoError(err)
	s.Equal(3, page.Total)
	s.Equal(2, page.TotalPages)
	s.Require().Len(page.Entries, 1)
	s.Equal(e1.ID, page.Entries[0].ID)

	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{}, 1, 500)
	s.Require().NoError(err)
	s.Equal(100, page.Limit, "limit se acota a 100")

	page, err = s.svc.ListEntries(s.ctx, repository.JournalEntryFilter{}, 9, 20)
	s.Require().NoError(err)
	s.Empty(page.Entries)
	s.Equal(3, page.Total)
}

func (s *LedgerSuite) TestGetOpenPeriod() {
	p, err := s.svc.GetOpenPeriod(s.ctx)
	s.Require().NoError(err)
	s.Equal(s.period.ID, p.ID)

	empty := newService(memory.NewStore(), nil)
	_, err = empty.GetOpenPeriod(s.ctx)
	s.requireKind(err, domain.ErrNotFound, "no open period")
}
