package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

var _ repository.JournalEntryRepository = (*JournalEntryRepo)(nil)

// Constraint única sobre journal_entries.number (ver migrations).
const numberConstraint = "uq_journal_entries_number"

// JournalEntryRepo implementación de JournalEntryRepository (usable con pool o tx).
type JournalEntryRepo struct {
	q Querier
}

// NewJournalEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalEntryRepository(q Querier) *JournalEntryRepo {
	return &JournalEntryRepo{q: q}
}

const entryColumns = `
	id, number, period_id, date, type, description, total_debit, total_credit, status,
	COALESCE(origin_doc_type, ''), COALESCE(origin_doc_id, ''), created_by,
	COALESCE(approved_by, ''), approved_at, COALESCE(voided_by, ''), voided_at, COALESCE(void_reason, ''),
	created_at, updated_at`

const lineColumns = `
	id, entry_id, line_order, account_code, COALESCE(account_name, ''), debit, credit,
	COALESCE(description, ''), COALESCE(third_party_type, ''), COALESCE(third_party_id, ''),
	COALESCE(third_party_name, ''), COALESCE(cost_center_id, '')`

// Create persiste la cabecera. Un choque con el índice único de number se traduce a
// domain.ErrDuplicateNumber para que CreateEntry reintente.
func (r *JournalEntryRepo) Create(ctx context.Context, e *entity.JournalEntry) error {
	const q = `
		INSERT INTO journal_entries
			(id, number, period_id, date, type, description, total_debit, total_credit, status,
			 origin_doc_type, origin_doc_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, q,
		e.ID, e.Number, e.PeriodID, e.Date, e.Type, e.Description, e.TotalDebit, e.TotalCredit, e.Status,
		nullIfEmpty(e.OriginDocType), nullIfEmpty(e.OriginDocID), e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == numberConstraint {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateNumber, e.Number)
		}
		return fmt.Errorf("insert journal_entry: %w", err)
	}
	return nil
}

// CreateLines inserta las líneas en un solo round-trip con pgx.Batch.
func (r *JournalEntryRepo) CreateLines(ctx context.Context, lines []*entity.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	const q = `
		INSERT INTO journal_lines
			(id, entry_id, line_order, account_code, account_name, debit, credit, description,
			 third_party_type, third_party_id, third_party_name, cost_center_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(q,
			l.ID, l.EntryID, l.LineOrder, l.AccountCode, nullIfEmpty(l.AccountName), l.Debit, l.Credit,
			nullIfEmpty(l.Description), nullIfEmpty(l.ThirdPartyType), nullIfEmpty(l.ThirdPartyID),
			nullIfEmpty(l.ThirdPartyName), nullIfEmpty(l.CostCenterID),
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert journal_line: %w", err)
		}
	}
	return nil
}

func (r *JournalEntryRepo) GetByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) hasta el fin de la transacción.
func (r *JournalEntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.JournalEntry, error) {
	return r.get(ctx, id, true)
}

func (r *JournalEntryRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.JournalEntry, error) {
	if !isUUID(id) {
		return nil, nil
	}
	q := `SELECT ` + entryColumns + ` FROM journal_entries WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	e, err := scanEntry(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal_entry: %w", err)
	}
	return e, nil
}

func (r *JournalEntryRepo) GetLines(ctx context.Context, entryID string) ([]*entity.JournalLine, error) {
	byEntry, err := r.GetLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	return byEntry[entryID], nil
}

func (r *JournalEntryRepo) GetLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]*entity.JournalLine, error) {
	out := make(map[string][]*entity.JournalLine, len(entryIDs))
	entryIDs = validUUIDs(entryIDs)
	if len(entryIDs) == 0 {
		return out, nil
	}
	q := `SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = ANY($1::uuid[])
		ORDER BY entry_id, line_order`
	rows, err := r.q.Query(ctx, q, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("list journal_lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.JournalLine
		if err := rows.Scan(
			&l.ID, &l.EntryID, &l.LineOrder, &l.AccountCode, &l.AccountName, &l.Debit, &l.Credit,
			&l.Description, &l.ThirdPartyType, &l.ThirdPartyID, &l.ThirdPartyName, &l.CostCenterID,
		); err != nil {
			return nil, fmt.Errorf("scan journal_line: %w", err)
		}
		out[l.EntryID] = append(out[l.EntryID], &l)
	}
	return out, rows.Err()
}

// LastNumber ordena por longitud y luego texto para que AC-2025-100000 quede después de AC-2025-99999.
func (r *JournalEntryRepo) LastNumber(ctx context.Context, prefix string, year int) (string, error) {
	const q = `
		SELECT number FROM journal_entries
		WHERE number LIKE $1
		ORDER BY LENGTH(number) DESC, number DESC
		LIMIT 1`
	var number string
	err := r.q.QueryRow(ctx, q, likeEscape(accounting.NumberPrefix(prefix, year))+"%").Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last journal number: %w", err)
	}
	return number, nil
}

func (r *JournalEntryRepo) UpdateDraft(ctx context.Context, e *entity.JournalEntry) (bool, error) {
	const q = `
		UPDATE journal_entries
		SET date            = $2,
		    type            = $3,
		    description     = $4,
		    origin_doc_type = $5,
		    origin_doc_id   = $6,
		    total_debit     = $7,
		    total_credit    = $8,
		    updated_at      = $9
		WHERE id = $1 AND status = 'DRAFT'`
	tag, err := r.q.Exec(ctx, q,
		e.ID, e.Date, e.Type, e.Description, nullIfEmpty(e.OriginDocType), nullIfEmpty(e.OriginDocID),
		e.TotalDebit, e.TotalCredit, e.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update journal_entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *JournalEntryRepo) UpdateStatus(ctx context.Context, e *entity.JournalEntry, fromStatus string) (bool, error) {
	const q = `
		UPDATE journal_entries
		SET status      = $3,
		    approved_by = $4,
		    approved_at = $5,
		    voided_by   = $6,
		    voided_at   = $7,
		    void_reason = $8,
		    updated_at  = $9
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, q,
		e.ID, fromStatus, e.Status,
		nullIfEmpty(e.ApprovedBy), e.ApprovedAt,
		nullIfEmpty(e.VoidedBy), e.VoidedAt, nullIfEmpty(e.VoidReason),
		e.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update journal_entry status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *JournalEntryRepo) DeleteLines(ctx context.Context, entryID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1`, entryID); err != nil {
		return fmt.Errorf("delete journal_lines: %w", err)
	}
	return nil
}

func (r *JournalEntryRepo) Delete(ctx context.Context, id, fromStatus string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1 AND status = $2`, id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("delete journal_entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *JournalEntryRepo) List(ctx context.Context, f repository.JournalEntryFilter, limit, offset int) ([]*entity.JournalEntry, int, error) {
	where := []string{"1=1"}
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.PeriodID != "" {
		if !isUUID(f.PeriodID) {
			return []*entity.JournalEntry{}, 0, nil
		}
		add("period_id = $%d", f.PeriodID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.DateFrom != nil {
		add("date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("date <= $%d", *f.DateTo)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("(number ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+likeEscape(s)+"%")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count journal_entries: %w", err)
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE %s
		ORDER BY date DESC, number DESC
		LIMIT $%d OFFSET $%d`, entryColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list journal_entries: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.JournalEntry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan journal_entry: %w", err)
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

func scanEntry(row pgxScanner) (*entity.JournalEntry, error) {
	var e entity.JournalEntry
	err := row.Scan(
		&e.ID, &e.Number, &e.PeriodID, &e.Date, &e.Type, &e.Description, &e.TotalDebit, &e.TotalCredit, &e.Status,
		&e.OriginDocType, &e.OriginDocID, &e.CreatedBy,
		&e.ApprovedBy, &e.ApprovedAt, &e.VoidedBy, &e.VoidedAt, &e.VoidReason,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
