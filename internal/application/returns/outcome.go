package returns

import (
	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// ItemStatus estado final de una línea: PENDING -> APPLIED | REJECTED.
type ItemStatus string

const (
	StatusApplied  ItemStatus = "APPLIED"
	StatusRejected ItemStatus = "REJECTED"
)

// ReasonCode motivo estable de rechazo; los llamadores comparan el código, no el mensaje.
type ReasonCode string

const (
	ReasonInvalidStockOut      ReasonCode = "INVALID_STOCKOUT"
	ReasonInvalidQuantity      ReasonCode = "INVALID_QUANTITY"
	ReasonQuantityExceeded     ReasonCode = "QUANTITY_EXCEEDED"
	ReasonRelatedStockNotFound ReasonCode = "RELATED_STOCK_NOT_FOUND"
	ReasonConflict             ReasonCode = "CONFLICT"
	ReasonInternal             ReasonCode = "INTERNAL"
)

// ItemOutcome resultado de una línea. Con StatusApplied, ItemID es el SalesReturnItem creado;
// con StatusRejected, Reason y Message explican el motivo.
type ItemOutcome struct {
	StockOutID string
	Quantity   decimal.Decimal
	Status     ItemStatus
	ItemID     string
	Reason     ReasonCode
	Message    string
}

// Outcome resultado de una devolución: la cabecera creada y una entrada por línea,
// en el orden en que se enviaron.
type Outcome struct {
	SalesReturn *entity.SalesReturn
	Items       []ItemOutcome
}

// Applied líneas aplicadas.
func (o *Outcome) Applied() []ItemOutcome { return o.filter(StatusApplied) }

// Rejected líneas rechazadas.
func (o *Outcome) Rejected() []ItemOutcome { return o.filter(StatusRejected) }

func (o *Outcome) filter(status ItemStatus) []ItemOutcome {
	out := make([]ItemOutcome, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Status == status {
			out = append(out, it)
		}
	}
	return out
}

// lineError rechazo de negocio de una línea; corta la transacción del ítem sin ser un fallo técnico.
type lineError struct {
	reason  ReasonCode
	message string
}

func (e *lineError) Error() string { return e.message }

func reject(reason ReasonCode, message string) error {
	return &lineError{reason: reason, message: message}
}
