package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Color  string `validate:"omitempty,hex_color"`
	TxType string `validate:"omitempty,transaction_type"`
	Cat    string `validate:"omitempty,category_type"`
	Filter string `validate:"omitempty,type_filter"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	for tag, fn := range map[string]validator.Func{
		"hex_color":        validateHexColor,
		"transaction_type": validateTransactionType,
		"category_type":    validateCategoryType,
		"type_filter":      validateTypeFilter,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			t.Fatalf("register %s: %v", tag, err)
		}
	}
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		name    string
		input   sample
		wantErr bool
	}{
		{name: "valid_long_hex", input: sample{Color: "#607D8B"}},
		{name: "valid_short_hex", input: sample{Color: "#fff"}},
		{name: "hex_without_hash", input: sample{Color: "607D8B"}, wantErr: true},
		{name: "hex_bad_digit", input: sample{Color: "#GGGGGG"}, wantErr: true},
		{name: "income_type", input: sample{TxType: "income"}},
		{name: "expense_type", input: sample{TxType: "expense"}},
		{name: "transfer_type_rejected", input: sample{TxType: "transfer"}, wantErr: true},
		{name: "category_type_expense", input: sample{Cat: "expense"}},
		{name: "category_type_unknown", input: sample{Cat: "savings"}, wantErr: true},
		{name: "filter_all", input: sample{Filter: "all"}},
		{name: "filter_income", input: sample{Filter: "income"}},
		{name: "filter_unknown", input: sample{Filter: "both"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
