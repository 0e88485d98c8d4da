package dataimport

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorChain_RendersWrappedCauses(t *testing.T) {
	base := errors.New("connection reset")
	mid := fmt.Errorf("delete 500 expired documents from customers: %w", base)
	top := fmt.Errorf("sweep run aborted: %w", mid)

	lines := strings.Split(errorChain(top), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %q", len(lines), lines)
	}
	if lines[0] != top.Error() {
		t.Fatalf("outermost error must come first: %q", lines[0])
	}
	if lines[2] != "connection reset" {
		t.Fatalf("root cause missing from chain: %q", lines[2])
	}

	if got := errorChain(base); got != "connection reset" {
		t.Fatalf("unwrapped error renders as itself, got %q", got)
	}
}
