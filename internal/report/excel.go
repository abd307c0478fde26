package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes the report as a two-sheet workbook: a revenue
// summary with the per-service breakdown, and a per-stylist sheet.
func ExportExcel(r *Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, r); err != nil {
		return err
	}
	if err := writeStylistSheet(f, r); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r *Report) error {
	const sheet = "Resumen"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]any{
		{"Periodo", r.From + " a " + r.To},
		{"Citas completadas", r.Appointments},
		{"Ingresos totales", r.TotalRevenue},
		{"Ingresos tarjeta", r.CardRevenue},
		{"Ingresos efectivo", r.CashRevenue},
		{"Sesiones de bono", r.VoucherSessions},
		{},
		{"Servicio", "Citas", "Ingresos"},
	}
	for _, ss := range r.Services {
		rows = append(rows, []any{ss.Name, ss.Count, ss.Revenue})
	}

	return writeRows(f, sheet, rows)
}

func writeStylistSheet(f *excelize.File, r *Report) error {
	const sheet = "Peluqueros"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	rows := [][]any{
		{"Peluquero", "Citas", "Ingresos", "Tarjeta", "Efectivo"},
	}
	for _, st := range r.Stylists {
		rows = append(rows, []any{st.Name, st.Count, st.Revenue, st.CardRevenue, st.CashRevenue})
	}

	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
