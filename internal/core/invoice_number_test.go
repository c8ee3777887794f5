package core

import "testing"

func TestFormatInvoiceNumber(t *testing.T) {
	cases := []struct {
		counter int64
		want    string
	}{
		{1, "INV-001"},
		{9, "INV-009"},
		{42, "INV-042"},
		{999, "INV-999"},
		{1000, "INV-1000"},
		{1204, "INV-1204"},
	}
	for _, tc := range cases {
		if got := FormatInvoiceNumber(tc.counter); got != tc.want {
			t.Errorf("FormatInvoiceNumber(%d) = %q, want %q", tc.counter, got, tc.want)
		}
	}
}

func TestParseInvoiceNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"INV-001", 1, false},
		{"INV-042", 42, false},
		{"INV-1204", 1204, false},
		{"INV-", 0, true},
		{"INV-xyz", 0, true},
		{"BILL-001", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseInvoiceNumber(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseInvoiceNumber(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseInvoiceNumber(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseInvoiceNumber(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int64{1, 3, 99, 100, 12345} {
		got, err := ParseInvoiceNumber(FormatInvoiceNumber(n))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip of %d returned %d", n, got)
		}
	}
}
