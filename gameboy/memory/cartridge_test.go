package memory

import "testing"

func makeROMWithTitle(title string) []byte {
	data := make([]byte, bankSize*2)
	copy(data[titleAddress:titleAddress+titleLength], title)
	return data
}

func TestNewCartridgeWithDataRejectsEmptyImage(t *testing.T) {
	_, err := NewCartridgeWithData(nil)
	if err == nil {
		t.Fatal("expected EmptyRomError for empty image")
	}
	if _, ok := err.(*EmptyRomError); !ok {
		t.Errorf("got %T; want *EmptyRomError", err)
	}
}

func TestNewCartridgeWithDataRejectsNonBankMultiple(t *testing.T) {
	_, err := NewCartridgeWithData(make([]byte, 100))
	if _, ok := err.(*EmptyRomError); !ok {
		t.Errorf("got %T; want *EmptyRomError", err)
	}
}

func TestNewCartridgeWithDataParsesTitle(t *testing.T) {
	cart, err := NewCartridgeWithData(makeROMWithTitle("TETRIS"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cart.Title(); got != "TETRIS" {
		t.Errorf("Title() = %q; want %q", got, "TETRIS")
	}
}

func TestNewCartridgeWithDataEmptyTitleBecomesUntitled(t *testing.T) {
	cart, err := NewCartridgeWithData(make([]byte, bankSize*2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cart.Title(); got != "(untitled)" {
		t.Errorf("Title() = %q; want \"(untitled)\"", got)
	}
}

func TestNewCartridgeWithDataReportsBankCount(t *testing.T) {
	cart, err := NewCartridgeWithData(make([]byte, bankSize*4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cart.BankCount(); got != 4 {
		t.Errorf("BankCount() = %d; want 4", got)
	}
}
