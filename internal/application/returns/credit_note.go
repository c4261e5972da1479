package returns

import (
	"context"
	"fmt"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// CreditNoteRenderer genera el documento de una nota crédito.
type CreditNoteRenderer interface {
	GenerateCreditNotePDF(ctx context.Context, sr *entity.SalesReturn) ([]byte, error)
}

// CreditNotePDF devuelve el PDF de la nota crédito de una devolución del tenant.
func (uc *SalesReturnUseCase) CreditNotePDF(ctx context.Context, renderer CreditNoteRenderer, adminID, id string) ([]byte, string, error) {
	sr, err := uc.load(ctx, adminID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := renderer.GenerateCreditNotePDF(ctx, sr)
	if err != nil {
		return nil, "", fmt.Errorf("generar nota crédito %s: %w", sr.CreditNoteID, err)
	}
	return pdf, sr.CreditNoteID + ".pdf", nil
}
