package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

// Row is one decoded spreadsheet line: normalized header -> raw cell value.
// Values are strings or numbers; absent keys read as empty or zero.
type Row map[string]any

// Header aliases accepted per logical field.
var (
	skuKeys      = []string{"sku"}
	dailySKUKeys = []string{"mãsảnphẩm", "masanpham", "sku"}
	nameKeys     = []string{"tênsảnphẩm", "tensanpham", "ten", "name"}
	packKeys     = []string{"quycachdonghang", "quycachdongthung", "packsize", "packsz"}
	boxKeys      = []string{"sốlượngthùng", "soluongthung", "thung", "boxes"}
	pieceKeys    = []string{"sốlượngchiếc", "soluongchiec", "chiec", "pieces"}
)

// Text returns the first non-blank value among keys, trimmed.
func (r Row) Text(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first present value among keys coerced to an integer.
// Fractions are floored; non-numeric, non-finite or out-of-range values
// yield 0. The second result reports whether any key held a usable value.
func (r Row) Int(keys ...string) (int, bool) {
	f, present, ok := r.lookup(keys)
	if !present || !ok || math.Abs(f) > units.MaxPieces {
		return 0, false
	}
	return int(math.Floor(f)), true
}

// Count reads a box or piece cell. Absent or non-numeric cells count as 0.
// The second result is false when the value exceeds units.MaxPieces in
// magnitude.
func (r Row) Count(keys ...string) (int, bool) {
	f, present, ok := r.lookup(keys)
	if !present || !ok {
		return 0, true
	}
	if math.Abs(f) > units.MaxPieces {
		return 0, false
	}
	return int(math.Floor(f)), true
}

// lookup returns the first non-blank value among keys as a float.
func (r Row) lookup(keys []string) (f float64, present, ok bool) {
	for _, k := range keys {
		v, found := r[k]
		if !found || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		f, ok = number(v)
		return f, true, ok
	}
	return 0, false, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}

func number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
