package validator

import "testing"

type sample struct {
	Days   int    `json:"days" validate:"gte=1"`
	Driver string `json:"driver" validate:"store_driver"`
	Name   string `json:"name" validate:"required"`
}

func TestValidate(t *testing.T) {
	if errs := Validate(&sample{Days: 7, Driver: "mongo", Name: "x"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := Validate(&sample{Days: 0, Driver: "sqlite"})
	want := map[string]string{
		"days":   "Value must be at least 1",
		"driver": "Invalid store driver. Must be: postgres, mongo, or memory",
		"name":   "This field is required",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), errs)
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, errs[field])
		}
	}
}
