// Package pdf genera la representación gráfica de una nota crédito por devolución.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: CREDIT NOTE + número  │  Fecha / Transacción       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOTIVO                                                     │
//	│  TABLA: SKU | Ítem | Cant | Costo unit. | Subtotal          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades devueltas / valor restituido             │
//	│  FOOTER: QR con el número de nota crédito                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/returns"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

var _ returns.CreditNoteRenderer = (*CreditNoteGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// CreditNoteGenerator implementa returns.CreditNoteRenderer usando Maroto v2.
type CreditNoteGenerator struct {
	issuer string
}

// NewCreditNoteGenerator construye el generador; issuer aparece como autor del documento.
func NewCreditNoteGenerator(issuer string) *CreditNoteGenerator {
	return &CreditNoteGenerator{issuer: issuer}
}

// creditLine fila de la tabla ya resuelta contra stock-out y stock. Se acredita al precio de venta.
type creditLine struct {
	sku       string
	name      string
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// GenerateCreditNotePDF genera el PDF y devuelve sus bytes.
func (g *CreditNoteGenerator) GenerateCreditNotePDF(_ context.Context, sr *entity.SalesReturn) ([]byte, error) {
	if sr == nil {
		return nil, fmt.Errorf("pdf: devolución nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Credit note "+sr.CreditNoteID, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	lines := buildLines(sr)

	m.AddRows(headerRow(sr))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(reasonRow(sr))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(lines))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(sr))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar nota crédito: %w", err)
	}
	return doc.GetBytes(), nil
}

func buildLines(sr *entity.SalesReturn) []creditLine {
	out := make([]creditLine, 0, len(sr.Items))
	for _, it := range sr.Items {
		l := creditLine{sku: "-", name: it.StockOutID, quantity: it.Quantity}
		if it.StockOut != nil {
			l.unitPrice = it.StockOut.SoldPrice
			if it.StockOut.Stock != nil {
				l.sku = it.StockOut.Stock.SKU
				l.name = it.StockOut.Stock.ItemName
			}
		}
		l.subtotal = l.quantity.Mul(l.unitPrice)
		out = append(out, l)
	}
	return out
}

// headerRow: número de nota crédito (izq) y fecha + transacción (der).
func headerRow(sr *entity.SalesReturn) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("CREDIT NOTE", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(sr.CreditNoteID, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Date: "+sr.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Transaction: "+nonEmpty(sr.TransactionID, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func reasonRow(sr *entity.SalesReturn) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("REASON", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(sr.Reason, "-"), props.Text{Size: 9, Top: 6}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas devueltas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("SKU", 2, align.Left),
		h("Item", 4, align.Left),
		h("Qty", 2, align.Right),
		h("Unit price", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func tableDetailRows(lines []creditLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.sku, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.quantity.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.unitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	if len(result) == 0 {
		result = append(result, row.New(8).Add(col.New(12).Add(
			text.New("No items were applied to this credit note.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}
	return result
}

func totalsRow(lines []creditLine) core.Row {
	units, value := decimal.Zero, decimal.Zero
	for _, l := range lines {
		units = units.Add(l.quantity)
		value = value.Add(l.subtotal)
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Units returned:"),
			text.New("Value restored:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(units.StringFixed(2), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(formatMoney(value), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// footerRow: QR con el número de nota crédito.
func footerRow(sr *entity.SalesReturn) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(sr.CreditNoteID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Stock from this credit note was restored to inventory.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(sr.CreditNoteID, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatMoney agrupa miles con coma y deja dos decimales: 1234567.5 -> "1,234,567.50".
func formatMoney(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "." + frac
	if v.IsNegative() {
		out = "-" + out
	}
	return out
}
