// internal/commission/calculator.go
package commission

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cuentasgo/backoffice/internal/models"
)

// Kind selects the commission mode.
type Kind string

const (
	// KindPublication charges the snapshot's flat publication fee.
	KindPublication Kind = "publication"
	// KindWithdrawal charges the snapshot's percentage of the withdrawn amount.
	KindWithdrawal Kind = "withdrawal"
)

func (k Kind) Valid() bool {
	return k == KindPublication || k == KindWithdrawal
}

// Record is a resolved snapshot combined with one event's base amount. It is
// derived for reporting and never persisted.
type Record struct {
	Kind       Kind            `json:"kind"`
	ConfigID   uuid.UUID       `json:"config_id"`
	EventTime  time.Time       `json:"event_time"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Commission decimal.Decimal `json:"commission"`
	// Percent is informational. For withdrawals it is the configured rate;
	// for publications it is derived from the flat fee and never used to
	// recompute the commission.
	Percent decimal.Decimal `json:"percent"`
}

var hundred = decimal.NewFromInt(100)

// ForPublication computes the commission for publishing a stock account:
// the snapshot's flat fee, regardless of the asking price. The display
// percent is fee/price and is zero when the price is zero.
func ForPublication(cfg *models.CommissionConfig, basePrice float64, eventTime time.Time) Record {
	base := decimal.NewFromFloat(basePrice)
	fee := decimal.NewFromFloat(cfg.PublicationFee)

	percent := decimal.Zero
	if !base.IsZero() {
		percent = fee.Div(base).Mul(hundred)
	}

	return Record{
		Kind:       KindPublication,
		ConfigID:   cfg.ID,
		EventTime:  eventTime,
		BaseAmount: base,
		Commission: fee,
		Percent:    percent,
	}
}

// ForWithdrawal computes the commission withheld from a wallet withdrawal:
// amount x percent / 100, unrounded.
func ForWithdrawal(cfg *models.CommissionConfig, amount float64, eventTime time.Time) Record {
	base := decimal.NewFromFloat(amount)
	percent := decimal.NewFromFloat(cfg.WithdrawalPercent)

	return Record{
		Kind:       KindWithdrawal,
		ConfigID:   cfg.ID,
		EventTime:  eventTime,
		BaseAmount: base,
		Commission: base.Mul(percent).Div(hundred),
		Percent:    percent,
	}
}

// Calculate resolves the snapshot for eventTime and computes the record for
// the given kind.
func Calculate(snapshots []models.CommissionConfig, kind Kind, baseAmount float64, eventTime time.Time) (Record, error) {
	cfg, err := Resolve(snapshots, eventTime)
	if err != nil {
		return Record{}, err
	}

	switch kind {
	case KindPublication:
		return ForPublication(cfg, baseAmount, eventTime), nil
	case KindWithdrawal:
		return ForWithdrawal(cfg, baseAmount, eventTime), nil
	default:
		return Record{}, fmt.Errorf("unknown commission kind %q", kind)
	}
}

// DisplayCommission rounds the commission to currency precision. Rounding
// happens here and nowhere earlier.
func (r Record) DisplayCommission() float64 {
	return r.Commission.Round(2).InexactFloat64()
}

// DisplayPercent rounds the informational percentage for presentation.
func (r Record) DisplayPercent() float64 {
	return r.Percent.Round(2).InexactFloat64()
}
