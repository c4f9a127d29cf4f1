// Package calculator turns a purchase request and a rate table into an IDR
// price breakdown. Every function here is pure.
package calculator

import (
	"errors"
	"fmt"
	"github.com/shopspring/decimal"
	"math"
	"pichu-go/internal/rates"
	"strings"
)

type Mode string

const (
	ModeKorea Mode = "KR"
	ModeChina Mode = "CH"
)

// Korean prices are entered in units of 10,000 KRW ("0.1 = 1,000 Won"),
// Chinese prices directly in CNY.
const (
	UnitScaleKorea int64 = 10000
	UnitScaleChina int64 = 1
)

var ErrInvalidMode = errors.New("invalid mode")

type Input struct {
	Mode  Mode
	Price float64
	// nil means the mode's default shipping from the rate table
	LocalShipping *float64
	PeopleCount   float64
}

// Result is denominated in whole IDR. Total is always ItemPrice + Fees.
type Result struct {
	ItemPrice int64 `json:"itemPrice"`
	Fees      int64 `json:"fees"`
	Total     int64 `json:"total"`
}

// maxIDR is the largest amount a Result can carry.
var maxIDR = decimal.NewFromInt(math.MaxInt64)

type modeParams struct {
	scale           decimal.Decimal
	rate            decimal.Decimal
	transferFee     decimal.Decimal
	defaultShipping decimal.Decimal
}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	if _, err := UnitScale(m); err != nil {
		return "", err
	}
	return m, nil
}

func UnitScale(mode Mode) (int64, error) {
	switch mode {
	case ModeKorea:
		return UnitScaleKorea, nil
	case ModeChina:
		return UnitScaleChina, nil
	default:
		return 0, fmt.Errorf("%q: %w", string(mode), ErrInvalidMode)
	}
}

// Calculate prices one item for the given mode. The only error is
// ErrInvalidMode; bad numeric input is clamped instead.
func Calculate(in Input, cfg rates.RateConfig) (Result, error) {
	const op = "calculator.Calculate"

	p, err := paramsFor(in.Mode, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	return compute(p, in, cfg), nil
}

func CalculateKorea(price float64, localShipping *float64, peopleCount float64, cfg rates.RateConfig) Result {
	p := koreaParams(cfg)
	return compute(p, Input{Mode: ModeKorea, Price: price, LocalShipping: localShipping, PeopleCount: peopleCount}, cfg)
}

func CalculateChina(price float64, localShipping *float64, peopleCount float64, cfg rates.RateConfig) Result {
	p := chinaParams(cfg)
	return compute(p, Input{Mode: ModeChina, Price: price, LocalShipping: localShipping, PeopleCount: peopleCount}, cfg)
}

// Participants coerces a raw people count to an integer >= 1.
func Participants(peopleCount float64) int64 {
	if math.IsNaN(peopleCount) || math.IsInf(peopleCount, 0) {
		return 1
	}
	n := math.Round(peopleCount)
	if n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int64(n)
}

func paramsFor(mode Mode, cfg rates.RateConfig) (modeParams, error) {
	switch mode {
	case ModeKorea:
		return koreaParams(cfg), nil
	case ModeChina:
		return chinaParams(cfg), nil
	default:
		return modeParams{}, fmt.Errorf("%q: %w", string(mode), ErrInvalidMode)
	}
}

func koreaParams(cfg rates.RateConfig) modeParams {
	return modeParams{
		scale:           decimal.NewFromInt(UnitScaleKorea),
		rate:            amount(cfg.Value(rates.KeyRateKR)),
		transferFee:     amount(cfg.Value(rates.KeyTransferFeeKR)),
		defaultShipping: amount(cfg.Value(rates.KeyShippingKR)),
	}
}

func chinaParams(cfg rates.RateConfig) modeParams {
	return modeParams{
		scale:           decimal.NewFromInt(UnitScaleChina),
		rate:            amount(cfg.Value(rates.KeyRateCH)),
		transferFee:     amount(cfg.Value(rates.KeyTransferFeeCH)),
		defaultShipping: amount(cfg.Value(rates.KeyShippingCH)),
	}
}

func compute(p modeParams, in Input, cfg rates.RateConfig) Result {
	shipping := p.defaultShipping
	if in.LocalShipping != nil {
		shipping = amount(*in.LocalShipping)
	}
	n := decimal.NewFromInt(Participants(in.PeopleCount))
	admin := amount(cfg.Value(rates.KeyAdminGo))

	itemPrice := amount(in.Price).Mul(p.scale).Mul(p.rate).Round(0)

	pool := shipping.Add(p.transferFee)
	fees := pool.Mul(p.rate).Add(admin).Div(n).Round(0)

	// Saturate so that Total stays exactly ItemPrice + Fees and fits in int64.
	fees = decimal.Min(fees, maxIDR)
	itemPrice = decimal.Min(itemPrice, maxIDR.Sub(fees))

	return Result{
		ItemPrice: itemPrice.IntPart(),
		Fees:      fees.IntPart(),
		Total:     itemPrice.Add(fees).IntPart(),
	}
}

// amount clamps negative and non-finite values to zero.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
