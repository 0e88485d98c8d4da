package dataimport

import (
	"testing"
	"time"
)

func TestChunkDocs_NeverExceedsBatchCap(t *testing.T) {
	cases := []struct {
		count    int
		expected []int
	}{
		{0, nil},
		{1, []int{1}},
		{500, []int{500}},
		{501, []int{500, 1}},
		{1200, []int{500, 500, 200}},
	}
	for _, tc := range cases {
		docs := make([]interface{}, tc.count)
		chunks := chunkDocs(docs, maxBatchWrites)
		if len(chunks) != len(tc.expected) {
			t.Fatalf("count=%d: expected %d chunks, got %d", tc.count, len(tc.expected), len(chunks))
		}
		for i, chunk := range chunks {
			if len(chunk) > maxBatchWrites {
				t.Fatalf("count=%d: chunk %d has %d docs, over the %d cap", tc.count, i, len(chunk), maxBatchWrites)
			}
			if len(chunk) != tc.expected[i] {
				t.Fatalf("count=%d: chunk %d has %d docs, expected %d", tc.count, i, len(chunk), tc.expected[i])
			}
		}
	}
}

func TestBuildRecords_DropsRowsMissingRequiredField(t *testing.T) {
	expiresAt := time.Now().Add(24 * time.Hour)
	rows := []rawRow{
		{"Name": "Acme Co", "Credit Limit": "1000"},
		{"Name": "   ", "Credit Limit": "500"},
		{"Credit Limit": "250"},
		{"Customer Name": "Gamma Inc"},
	}

	docs, skipped := BuildRecords(rows, buildCustomer, expiresAt)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
	if len(docs)+skipped != len(rows) {
		t.Fatalf("written+skipped=%d does not account for %d input rows", len(docs)+skipped, len(rows))
	}
}

func TestBuildCustomer_EndToEndRow(t *testing.T) {
	expiresAt := time.Now().Add(24 * time.Hour)
	row := rawRow{"Name": "Acme Co", "Credit Limit": "1000", "Account Number": "AC-1"}

	doc, ok := buildCustomer(row, expiresAt)
	if !ok {
		t.Fatalf("row unexpectedly dropped")
	}
	customer, isCustomer := doc.(*Customer)
	if !isCustomer {
		t.Fatalf("expected *Customer, got %T", doc)
	}
	if customer.Name != "Acme Co" {
		t.Fatalf("Name = %q", customer.Name)
	}
	if customer.CreditLimit != 1000 {
		t.Fatalf("CreditLimit = %v", customer.CreditLimit)
	}
	if customer.AccountNumber != "AC-1" {
		t.Fatalf("AccountNumber = %q", customer.AccountNumber)
	}
	if customer.PostalAddress != "" || customer.PaymentTerms != "" || customer.Area != "" {
		t.Fatalf("unresolved string fields must default to empty: %+v", customer)
	}
	if !customer.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("ExpiresAt = %v, expected %v", customer.ExpiresAt, expiresAt)
	}
	if !customer.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt must stay zero for the server timestamp, got %v", customer.CreatedAt)
	}
}

func TestBuildReceivable_NumericDefaults(t *testing.T) {
	doc, ok := buildReceivable(rawRow{"Customer": "Acme Co", "Amount Due": "oops"}, time.Now())
	if !ok {
		t.Fatalf("row unexpectedly dropped")
	}
	entry := doc.(*ReceivableEntry)
	if entry.Name != "Acme Co" {
		t.Fatalf("Name = %q", entry.Name)
	}
	if entry.AmountDue != 0 || entry.OverThirtyDays != 0 || entry.Unsecured != 0 {
		t.Fatalf("numeric fields must default to 0: %+v", entry)
	}
}

func TestBuildItemMaster_RequiresProductGroup(t *testing.T) {
	if _, ok := buildItemMaster(rawRow{"Description": "orphan item"}, time.Now()); ok {
		t.Fatalf("row without product group must be dropped")
	}
	doc, ok := buildItemMaster(rawRow{
		"Product Group":     "Beverages",
		"Item Code":         "IC-9",
		"CONVERSION FACTOR": "12",
		"REGULAR":           "35.5",
		"RML INCLUSIVE":     "38",
		"SPECIAL OD":        "33",
	}, time.Now())
	if !ok {
		t.Fatalf("row unexpectedly dropped")
	}
	entry := doc.(*ItemMasterEntry)
	if entry.ProductGroup != "Beverages" || entry.ConversionFactor != 12 || entry.RegularPrice != 35.5 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.RmlInclusivePrice != 38 || entry.SpecialOD != 33 {
		t.Fatalf("unexpected prices: %+v", entry)
	}
}

func TestBuildItemAvailability_RequiresDate(t *testing.T) {
	if _, ok := buildItemAvailability(rawRow{"Area": "North"}, time.Now()); ok {
		t.Fatalf("row without date must be dropped")
	}
	doc, ok := buildItemAvailability(rawRow{
		"Date": "2026-08-30",
		"NET QTY AVAILABLE FOR SALE": "120",
	}, time.Now())
	if !ok {
		t.Fatalf("row unexpectedly dropped")
	}
	entry := doc.(*ItemAvailability)
	if entry.Date != "2026-08-30" {
		t.Fatalf("Date = %q", entry.Date)
	}
	if entry.Quantity != 120 {
		t.Fatalf("Quantity = %v", entry.Quantity)
	}
}
