package accounting

import (
	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
)

// Action operación del ciclo de vida de un comprobante.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionVoid    Action = "void"
	ActionDelete  Action = "delete"
)

type transition struct {
	from   map[string]bool
	to     string // vacío: la acción no cambia el estado (edit) o elimina (delete)
	reason string
}

// Tabla de transiciones. No hay camino de APPROVED/VOID hacia DRAFT/PENDING.
var transitions = map[Action]transition{
	ActionEdit: {
		from:   map[string]bool{entity.EntryStatusDraft: true},
		reason: "only DRAFT entries can be edited",
	},
	ActionSubmit: {
		from:   map[string]bool{entity.EntryStatusDraft: true},
		to:     entity.EntryStatusPending,
		reason: "entry not in DRAFT",
	},
	ActionApprove: {
		from:   map[string]bool{entity.EntryStatusDraft: true, entity.EntryStatusPending: true},
		to:     entity.EntryStatusApproved,
		reason: "entry not in DRAFT/PENDING",
	},
	ActionVoid: {
		from: map[string]bool{
			entity.EntryStatusDraft:    true,
			entity.EntryStatusPending:  true,
			entity.EntryStatusApproved: true,
		},
		to:     entity.EntryStatusVoid,
		reason: "entry already void",
	},
	ActionDelete: {
		from:   map[string]bool{entity.EntryStatusDraft: true},
		reason: "only DRAFT entries can be deleted",
	},
}

// CheckTransition devuelve el estado destino de action desde status, o un error de
// validación con el motivo si la transición no está permitida.
func CheckTransition(action Action, status string) (string, error) {
	tr, ok := transitions[action]
	if !ok {
		return "", domain.NewValidationError("unknown action %q", string(action))
	}
	if !tr.from[status] {
		return "", domain.NewValidationError("%s", tr.reason)
	}
	if tr.to == "" {
		return status, nil
	}
	return tr.to, nil
}
