// seed_stock genera un script SQL con el stock inicial de un tenant a partir de una
// hoja de cálculo (.xlsx) o un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_stock -in stock.xlsx -admin <uuid> [-sheet Hoja1] [-latin1] [-out seed_stock.sql]
//
// Columnas esperadas (la primera fila es encabezado):
// sku, item_name, quantity, unit_cost, unit, location, reorder_level
//
// El script es idempotente: cada fila genera la fila de stock_items y su entrada
// IN/RECEIPT en stock_history con ids derivados de (admin, sku).
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/stock"
)

// seedNamespace espacio de nombres para los UUID v5 del seed.
var seedNamespace = uuid.MustParse("6f1c4e52-2b57-4d3b-9a51-53a0c1f0d7e4")

type seedRow struct {
	SKU          string
	ItemName     string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Unit         string
	Location     string
	ReorderLevel decimal.Decimal
}

func main() {
	in := flag.String("in", "", "archivo .xlsx o .csv")
	adminID := flag.String("admin", "", "admin (tenant) dueño del stock")
	sheet := flag.String("sheet", "", "hoja del .xlsx (por defecto la primera)")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	outPath := flag.String("out", "seed_stock.sql", "script SQL de salida")
	flag.Parse()

	if *in == "" || *adminID == "" {
		flag.Usage()
		os.Exit(2)
	}

	records, err := readRecords(*in, *sheet, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer %s: %v\n", *in, err)
		os.Exit(1)
	}
	rows, err := parseRows(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Interpretar filas: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, *adminID, rows, time.Now().UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d ítems para admin %s\n", *outPath, len(rows), *adminID)
}

// readRecords devuelve las filas crudas del archivo según su extensión.
func readRecords(path, sheet string, latin1 bool) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if sheet == "" {
			sheets := f.GetSheetList()
			if len(sheets) == 0 {
				return nil, errors.New("el archivo no tiene hojas")
			}
			sheet = sheets[0]
		}
		return f.GetRows(sheet)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSV(f, latin1)
	default:
		return nil, fmt.Errorf("extensión no soportada %q", filepath.Ext(path))
	}
}

func readCSV(r io.Reader, latin1 bool) ([][]string, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// parseRows interpreta las filas usando el encabezado para ubicar columnas.
// Filas sin sku se ignoran; un SKU repetido es error.
func parseRows(records [][]string) ([]seedRow, error) {
	if len(records) < 2 {
		return nil, errors.New("no hay filas de datos")
	}
	col := make(map[string]int)
	for i, h := range records[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"sku", "item_name", "quantity"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("falta la columna %q", req)
		}
	}
	cell := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(rec []string, name string, line int) (decimal.Decimal, error) {
		s := strings.ReplaceAll(cell(rec, name), ",", "")
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("fila %d: %s inválido %q", line, name, s)
		}
		if d.IsNegative() {
			return decimal.Zero, fmt.Errorf("fila %d: %s negativo", line, name)
		}
		return stock.Round(d), nil
	}

	seen := make(map[string]int)
	var rows []seedRow
	for i, rec := range records[1:] {
		line := i + 2
		sku := cell(rec, "sku")
		if sku == "" {
			continue
		}
		if prev, ok := seen[sku]; ok {
			return nil, fmt.Errorf("fila %d: sku %q repetido (fila %d)", line, sku, prev)
		}
		seen[sku] = line

		row := seedRow{SKU: sku, ItemName: cell(rec, "item_name"), Unit: cell(rec, "unit"), Location: cell(rec, "location")}
		if row.ItemName == "" {
			return nil, fmt.Errorf("fila %d: item_name vacío", line)
		}
		if row.Unit == "" {
			row.Unit = "unit"
		}
		var err error
		if row.Quantity, err = num(rec, "quantity", line); err != nil {
			return nil, err
		}
		if row.UnitCost, err = num(rec, "unit_cost", line); err != nil {
			return nil, err
		}
		if row.ReorderLevel, err = num(rec, "reorder_level", line); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// stockID y receiptID son deterministas para que el script pueda reejecutarse.
func stockID(adminID, sku string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(adminID+"|"+sku))
}

func receiptID(adminID, sku string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte("receipt|"+adminID+"|"+sku))
}

func writeSQL(w io.Writer, adminID string, rows []seedRow, now time.Time) error {
	admin := escapeSQL(adminID)
	ts := now.Format(time.RFC3339)

	var b strings.Builder
	b.WriteString("-- Stock inicial generado por seed_stock\n")
	fmt.Fprintf(&b, "-- admin: %s, ítems: %d\n\n", admin, len(rows))
	b.WriteString("BEGIN;\n\n")
	for _, r := range rows {
		id := stockID(adminID, r.SKU)
		total := r.Quantity.Mul(r.UnitCost)
		fmt.Fprintf(&b, "INSERT INTO stock_items (id, admin_id, sku, item_name, unit_of_measure, quantity, unit_cost, total_value, location, reorder_level, received_date, created_at, updated_at)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', %s, %s, %s, '%s', %s, '%s', '%s', '%s')\n",
			id, admin, escapeSQL(r.SKU), escapeSQL(r.ItemName), escapeSQL(r.Unit),
			r.Quantity.String(), r.UnitCost.String(), total.String(),
			escapeSQL(r.Location), r.ReorderLevel.String(), ts, ts, ts)
		b.WriteString("ON CONFLICT (admin_id, sku) DO NOTHING;\n")

		fmt.Fprintf(&b, "INSERT INTO stock_history (id, admin_id, stock_id, movement_type, source_type, qty_before, qty_change, qty_after, unit_price, note, actor_admin_id, created_at)\n")
		fmt.Fprintf(&b, "SELECT '%s', admin_id, id, '%s', '%s', 0, quantity, quantity, unit_cost, 'Opening stock', admin_id, '%s' FROM stock_items WHERE id = '%s'\n",
			receiptID(adminID, r.SKU), entity.MovementTypeIN, entity.SourceTypeReceipt, ts, id)
		b.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")
	}
	b.WriteString("COMMIT;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
