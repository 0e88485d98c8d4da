package dataimport

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookWithSheet(t *testing.T, sheet string, rows ...[]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("NewSheet(%q): %v", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow row %d: %v", i+1, err)
		}
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestNormalizeSheet_SkipsPreambleAndZipsHeaders(t *testing.T) {
	f := workbookWithSheet(t, "customer master",
		[]interface{}{"CUSTOMER LIST"},
		[]interface{}{"", "Name", "Credit Limit", "Account Number"},
		[]interface{}{"", "Acme Co", "1000", "AC-1"},
		[]interface{}{"", "Beta Ltd", "", "AC-2"},
	)

	rows, err := NormalizeSheet(f, "customer master")
	if err != nil {
		t.Fatalf("NormalizeSheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(rows))
	}
	if rows[0]["Name"] != "Acme Co" || rows[0]["Credit Limit"] != "1000" || rows[0]["Account Number"] != "AC-1" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1]["Name"] != "Beta Ltd" {
		t.Fatalf("unexpected second row: %v", rows[1])
	}
}

func TestNormalizeRows_DropsBlankHeaderColumns(t *testing.T) {
	rows, err := normalizeRows("item master", [][]string{
		{"ITEM LIST"},
		{"Product Group", "", "Item Code"},
		{"Beverages", "ignored", "IC-9"},
	})
	if err != nil {
		t.Fatalf("normalizeRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if _, ok := rows[0]["ignored"]; ok {
		t.Fatalf("blank-header column leaked into record: %v", rows[0])
	}
	if rows[0]["Product Group"] != "Beverages" || rows[0]["Item Code"] != "IC-9" {
		t.Fatalf("unexpected row: %v", rows[0])
	}
}

func TestNormalizeSheet_MissingSheet(t *testing.T) {
	f := workbookWithSheet(t, "customer master",
		[]interface{}{"CUSTOMER LIST"},
		[]interface{}{"Name"},
	)

	_, err := NormalizeSheet(f, "acct recble")
	var structErr *SheetStructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected SheetStructureError, got %v", err)
	}
	if structErr.Sheet != "acct recble" {
		t.Fatalf("error names wrong sheet: %q", structErr.Sheet)
	}
}

func TestNormalizeSheet_TooShort(t *testing.T) {
	f := workbookWithSheet(t, "items available",
		[]interface{}{"AVAILABILITY"},
	)

	_, err := NormalizeSheet(f, "items available")
	var structErr *SheetStructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected SheetStructureError, got %v", err)
	}
	if structErr.Sheet != "items available" {
		t.Fatalf("error names wrong sheet: %q", structErr.Sheet)
	}
}

func TestNormalizeSheet_HeaderRowOnlyYieldsNoRecords(t *testing.T) {
	rows, err := normalizeRows("acct recble", [][]string{
		{"RECEIVABLES"},
		{"Customer", "Amount Due"},
	})
	if err != nil {
		t.Fatalf("normalizeRows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no data rows, got %d", len(rows))
	}
}
