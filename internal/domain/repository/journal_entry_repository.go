package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hospital-contable/internal/domain/entity"
)

// JournalEntryFilter filtros del listado de comprobantes. Campos vacíos no filtran.
type JournalEntryFilter struct {
	PeriodID string
	Type     string
	Status   string
	DateFrom *time.Time // date >= DateFrom
	DateTo   *time.Time // date <= DateTo
	Search   string     // subcadena en number o description, sin distinguir mayúsculas
}

// JournalEntryRepository define el puerto de persistencia para comprobantes y sus líneas.
// Las implementaciones se construyen sobre el pool (lecturas) o sobre una tx (escrituras).
type JournalEntryRepository interface {
	// Create inserta la cabecera. Devuelve domain.ErrDuplicateNumber si el número ya existe.
	Create(ctx context.Context, entry *entity.JournalEntry) error
	CreateLines(ctx context.Context, lines []*entity.JournalLine) error

	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.JournalEntry, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.JournalEntry, error)
	// GetLines devuelve las líneas ordenadas por line_order.
	GetLines(ctx context.Context, entryID string) ([]*entity.JournalLine, error)
	GetLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]*entity.JournalLine, error)

	// LastNumber devuelve el mayor número del espacio <prefix>-<year>-, o "" si no hay.
	LastNumber(ctx context.Context, prefix string, year int) (string, error)

	// UpdateDraft reescribe la cabecera editable solo si el comprobante sigue en DRAFT.
	UpdateDraft(ctx context.Context, entry *entity.JournalEntry) (bool, error)
	// UpdateStatus persiste estado y campos de aprobación/anulación solo si el estado actual es fromStatus.
	UpdateStatus(ctx context.Context, entry *entity.JournalEntry, fromStatus string) (bool, error)

	DeleteLines(ctx context.Context, entryID string) error
	// Delete elimina la cabecera solo si el estado actual es fromStatus.
	Delete(ctx context.Context, id, fromStatus string) (bool, error)

	// List devuelve la página pedida (fecha DESC, número DESC) y el total sin paginar.
	List(ctx context.Context, filter JournalEntryFilter, limit, offset int) ([]*entity.JournalEntry, int, error)
}

// SequenceCounterRepository contador atómico por (prefijo, año).
type SequenceCounterRepository interface {
	// Increment suma uno al contador y devuelve el nuevo valor. La primera vez arranca
	// desde el mayor consecutivo ya persistido en journal_entries.
	Increment(ctx context.Context, prefix string, year int) (int64, error)
}
