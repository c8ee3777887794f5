package google

import (
	"context"
	"strings"
	"testing"
)

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{
		CredentialsJSON: `{"type":"service_account"}`,
	})
	if err == nil {
		t.Fatal("New without spreadsheet ID should fail")
	}
	if !strings.Contains(err.Error(), "spreadsheet ID") {
		t.Errorf("error = %v, want spreadsheet ID mention", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID: "sheet-123",
	})
	if err == nil {
		t.Fatal("New without credentials should fail")
	}
	if !strings.Contains(err.Error(), "credentials") {
		t.Errorf("error = %v, want credentials mention", err)
	}
}

func TestNewRejectsMissingCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID:   "sheet-123",
		CredentialsFile: "/nonexistent/key.json",
	})
	if err == nil {
		t.Fatal("New with missing credentials file should fail")
	}
}
