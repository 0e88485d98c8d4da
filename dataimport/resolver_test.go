package dataimport

import "testing"

func TestResolveString_AliasPriority(t *testing.T) {
	cases := []struct {
		name     string
		row      rawRow
		aliases  []string
		expected string
	}{
		{
			name:     "first alias wins over later ones",
			row:      rawRow{"name": "Direct", "Customer Name": "Aliased"},
			aliases:  []string{"name", "Name", "Customer Name"},
			expected: "Direct",
		},
		{
			name:     "blank first alias falls through",
			row:      rawRow{"name": "   ", "Name": "Fallback"},
			aliases:  []string{"name", "Name"},
			expected: "Fallback",
		},
		{
			name:     "value is trimmed",
			row:      rawRow{"Customer Name": "  Acme Co  "},
			aliases:  []string{"name", "Name", "Customer Name"},
			expected: "Acme Co",
		},
		{
			name:     "no alias matches resolves to empty",
			row:      rawRow{"Unrelated": "x"},
			aliases:  []string{"name", "Name"},
			expected: "",
		},
	}
	for _, tc := range cases {
		if got := resolveString(tc.row, tc.aliases...); got != tc.expected {
			t.Fatalf("%s: resolveString = %q, expected %q", tc.name, got, tc.expected)
		}
	}
}

func TestResolveNumber_DefaultsToZero(t *testing.T) {
	cases := []struct {
		name     string
		row      rawRow
		aliases  []string
		expected float64
	}{
		{"plain number", rawRow{"Credit Limit": "1000"}, []string{"creditLimit", "Credit Limit"}, 1000},
		{"thousands separators", rawRow{"Amount Due": "1,234.50"}, []string{"amountDue", "Amount Due"}, 1234.5},
		{"non-numeric resolves to zero", rawRow{"Unsecured": "n/a"}, []string{"unsecured", "Unsecured"}, 0},
		{"missing resolves to zero", rawRow{}, []string{"quantity", "Quantity"}, 0},
		{"blank resolves to zero", rawRow{"Quantity": "  "}, []string{"quantity", "Quantity"}, 0},
	}
	for _, tc := range cases {
		if got := resolveNumber(tc.row, tc.aliases...); got != tc.expected {
			t.Fatalf("%s: resolveNumber = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}
