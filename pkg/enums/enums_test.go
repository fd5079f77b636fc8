package enums

import "testing"

func TestParseItemStatus(t *testing.T) {
	if got, err := ParseItemStatus("borrowed"); err != nil || got != ItemStatusBorrowed {
		t.Fatalf("expected borrowed, got %q err %v", got, err)
	}
	if _, err := ParseItemStatus("checked_out"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if ItemStatus("lost").IsValid() {
		t.Fatalf("lost should not be valid")
	}
}

func TestParseActionType(t *testing.T) {
	if got, err := ParseActionType("return"); err != nil || got != ActionTypeReturn {
		t.Fatalf("expected return, got %q err %v", got, err)
	}
	if _, err := ParseActionType("steal"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
	if ActionTypeBorrow.Opposite() != ActionTypeReturn {
		t.Fatalf("borrow opposite should be return")
	}
	if ActionTypeReturn.Opposite() != ActionTypeBorrow {
		t.Fatalf("return opposite should be borrow")
	}
}

func TestParsePermission(t *testing.T) {
	if got, err := ParsePermission("Admin"); err != nil || got != PermissionAdmin {
		t.Fatalf("expected Admin, got %q err %v", got, err)
	}
	if _, err := ParsePermission("root"); err == nil {
		t.Fatalf("expected error for unknown permission")
	}
	if Permission("admin").IsValid() {
		t.Fatalf("permission values are case sensitive")
	}
}
