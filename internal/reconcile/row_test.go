package reconcile

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

func TestRowInt(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		want   int
		wantOK bool
	}{
		{"int", Row{"thung": 3}, 3, true},
		{"float floored", Row{"thung": 2.9}, 2, true},
		{"numeric string", Row{"thung": " 7 "}, 7, true},
		{"json number", Row{"thung": json.Number("4")}, 4, true},
		{"garbage string", Row{"thung": "three"}, 0, false},
		{"NaN", Row{"thung": math.NaN()}, 0, false},
		{"infinity string", Row{"thung": "Inf"}, 0, false},
		{"absent", Row{}, 0, false},
		{"beyond the maximum", Row{"thung": "1e30"}, 0, false},
		{"blank falls through to alias", Row{"sốlượngthùng": "", "thung": 5}, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.row.Int(boxKeys...)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Int() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRowCount(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		want   int
		wantOK bool
	}{
		{"number", Row{"thung": 4.5}, 4, true},
		{"absent counts as zero", Row{}, 0, true},
		{"garbage counts as zero", Row{"thung": "n/a"}, 0, true},
		{"at the maximum", Row{"thung": float64(units.MaxPieces)}, units.MaxPieces, true},
		{"beyond the maximum", Row{"thung": "1e18"}, 0, false},
		{"far below zero", Row{"thung": "-1e30"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.row.Count(boxKeys...)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Count() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRowText(t *testing.T) {
	r := Row{"tênsảnphẩm": "  ", "ten": " Tea ", "sku": 1001.0}
	if got := r.Text(nameKeys...); got != "Tea" {
		t.Errorf("name = %q", got)
	}
	if got := r.Text(skuKeys...); got != "1001" {
		t.Errorf("sku = %q", got)
	}
}
