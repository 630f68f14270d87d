package economy

import (
	"math"
	"testing"

	"github.com/fabrikdev/econdag/pkg/errors"
)

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name     string
		product  Product
		wantCode errors.Code
	}{
		{"Valid", Product{Name: "Ore"}, ""},
		{"ValidWithInputs", Product{Name: "Iron", Inputs: []Input{{ProductID: 0, Amount: 2.5}}}, ""},
		{"EmptyName", Product{Name: ""}, errors.ErrCodeEmptyName},
		{"WhitespaceName", Product{Name: " \t "}, errors.ErrCodeEmptyName},
		{"ZeroAmount", Product{Name: "Iron", Inputs: []Input{{Amount: 0}}}, errors.ErrCodeBadInputAmount},
		{"NegativeAmount", Product{Name: "Iron", Inputs: []Input{{Amount: -2}}}, errors.ErrCodeBadInputAmount},
		{"NaNAmount", Product{Name: "Iron", Inputs: []Input{{Amount: math.NaN()}}}, errors.ErrCodeBadInputAmount},
		{"InfAmount", Product{Name: "Iron", Inputs: []Input{{Amount: math.Inf(1)}}}, errors.ErrCodeBadInputAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestIsRawMaterial(t *testing.T) {
	raw := Product{Name: "Ore"}
	if !raw.IsRawMaterial() {
		t.Error("product without inputs is not raw")
	}

	recipe := Product{Name: "Iron", Inputs: []Input{{ProductID: 0, Amount: 1}}}
	if recipe.IsRawMaterial() {
		t.Error("product with inputs reported as raw")
	}
}

func TestDependsOn(t *testing.T) {
	p := Product{Name: "Wire", Inputs: []Input{
		{ProductID: 3, Amount: 1},
		{ProductID: 7, Amount: 2},
	}}

	if !p.DependsOn(3) || !p.DependsOn(7) {
		t.Error("DependsOn missed a listed input")
	}
	if p.DependsOn(5) {
		t.Error("DependsOn reported an unlisted input")
	}
}

func TestInputIDs(t *testing.T) {
	p := Product{Name: "Wire", Inputs: []Input{
		{ProductID: 3, Amount: 1},
		{ProductID: 7, Amount: 2},
	}}

	ids := p.InputIDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Errorf("InputIDs = %v, want [3 7]", ids)
	}
}
