package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPrecision is the largest number of decimal places a Symbol may carry.
const MaxPrecision = 18

// MaxAmount bounds the absolute value of a valid Asset amount.
const MaxAmount int64 = 1<<62 - 1

// Symbol identifies a community token: its code and decimal precision.
// Textual form is "<precision>,<CODE>", e.g. "4,BES".
type Symbol struct {
	Precision uint8  `json:"precision"`
	Code      string `json:"code"`
}

// ParseSymbol parses the "<precision>,<CODE>" form.
func ParseSymbol(s string) (Symbol, error) {
	prec, code, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Symbol{}, fmt.Errorf("symbol %q: expected <precision>,<CODE>", s)
	}
	p, err := strconv.ParseUint(prec, 10, 8)
	if err != nil {
		return Symbol{}, fmt.Errorf("symbol %q: invalid precision: %w", s, err)
	}
	sym := Symbol{Precision: uint8(p), Code: code}
	if !sym.Valid() {
		return Symbol{}, fmt.Errorf("symbol %q is invalid", s)
	}
	return sym, nil
}

// Valid reports whether the code is 1-7 uppercase letters and the precision is in range.
func (s Symbol) Valid() bool {
	if s.Precision > MaxPrecision {
		return false
	}
	if len(s.Code) == 0 || len(s.Code) > 7 {
		return false
	}
	for i := 0; i < len(s.Code); i++ {
		if s.Code[i] < 'A' || s.Code[i] > 'Z' {
			return false
		}
	}
	return true
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Code)
}

// Asset is an amount of a community token in its smallest unit.
// Textual form is "<amount> <CODE>" with exactly Precision decimals, e.g. "10.0000 BES".
type Asset struct {
	Amount int64  `json:"amount"`
	Symbol Symbol `json:"symbol"`
}

// NewAsset builds an Asset from an amount in smallest units.
func NewAsset(amount int64, sym Symbol) Asset {
	return Asset{Amount: amount, Symbol: sym}
}

// ParseAsset parses the "<amount> <CODE>" form. The number of decimals
// written determines the symbol precision.
func ParseAsset(s string) (Asset, error) {
	num, code, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return Asset{}, fmt.Errorf("asset %q: expected <amount> <CODE>", s)
	}
	neg := strings.HasPrefix(num, "-")
	num = strings.TrimPrefix(num, "-")

	whole, frac, _ := strings.Cut(num, ".")
	if whole == "" {
		return Asset{}, fmt.Errorf("asset %q: missing integer part", s)
	}
	if strings.ContainsAny(whole+frac, "+-") {
		return Asset{}, fmt.Errorf("asset %q: misplaced sign", s)
	}
	if len(frac) > MaxPrecision {
		return Asset{}, fmt.Errorf("asset %q: too many decimals", s)
	}
	amount, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return Asset{}, fmt.Errorf("asset %q: invalid amount: %w", s, err)
	}
	if neg {
		amount = -amount
	}

	a := Asset{Amount: amount, Symbol: Symbol{Precision: uint8(len(frac)), Code: strings.TrimSpace(code)}}
	if !a.Valid() {
		return Asset{}, fmt.Errorf("asset %q is invalid", s)
	}
	return a, nil
}

// MustAsset is ParseAsset for literals; it panics on invalid input.
func MustAsset(s string) Asset {
	a, err := ParseAsset(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Valid reports whether the symbol is valid and the amount is within range.
func (a Asset) Valid() bool {
	return a.Symbol.Valid() && a.Amount >= -MaxAmount && a.Amount <= MaxAmount
}

// IsPositive reports whether the amount is greater than zero.
func (a Asset) IsPositive() bool {
	return a.Amount > 0
}

func (a Asset) String() string {
	amount := a.Amount
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	p := int(a.Symbol.Precision)
	if p == 0 {
		return fmt.Sprintf("%s%s %s", sign, digits, a.Symbol.Code)
	}
	if len(digits) <= p {
		digits = strings.Repeat("0", p-len(digits)+1) + digits
	}
	cut := len(digits) - p
	return fmt.Sprintf("%s%s.%s %s", sign, digits[:cut], digits[cut:], a.Symbol.Code)
}
