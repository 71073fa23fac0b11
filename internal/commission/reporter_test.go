// internal/commission/reporter_test.go
package commission

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func record(kind Kind, commission float64) Record {
	return Record{
		Kind:       kind,
		EventTime:  time.Now(),
		Commission: decimal.NewFromFloat(commission),
	}
}

func TestAggregateEmptyInputReturnsZeros(t *testing.T) {
	summary := Aggregate(nil)

	assert.Equal(t, 0, summary.Count)
	assert.True(t, summary.Total.IsZero())
	assert.True(t, summary.Average.IsZero())
	assert.Empty(t, summary.ByKind)
}

func TestAggregateTotalsAndAverages(t *testing.T) {
	records := []Record{
		record(KindPublication, 2.0),
		record(KindPublication, 2.0),
		record(KindWithdrawal, 6.0),
	}

	summary := Aggregate(records)

	assert.Equal(t, 3, summary.Count)
	assert.True(t, summary.Total.Equal(decimal.NewFromFloat(10.0)))
	assert.True(t, summary.Average.Equal(decimal.NewFromFloat(10.0).Div(decimal.NewFromInt(3))))

	pub := summary.ByKind[KindPublication]
	assert.Equal(t, 2, pub.Count)
	assert.True(t, pub.Total.Equal(decimal.NewFromFloat(4.0)))
	assert.True(t, pub.Average.Equal(decimal.NewFromFloat(2.0)))
	assert.True(t, pub.ShareOfTotal.Equal(decimal.NewFromFloat(40.0)), "got %s", pub.ShareOfTotal)

	wd := summary.ByKind[KindWithdrawal]
	assert.Equal(t, 1, wd.Count)
	assert.True(t, wd.ShareOfTotal.Equal(decimal.NewFromFloat(60.0)), "got %s", wd.ShareOfTotal)
}

func TestAggregateZeroTotalGuardsShareDivision(t *testing.T) {
	records := []Record{
		record(KindPublication, 0),
		record(KindWithdrawal, 0),
	}

	summary := Aggregate(records)

	assert.Equal(t, 2, summary.Count)
	assert.True(t, summary.Total.IsZero())
	for kind, stats := range summary.ByKind {
		assert.True(t, stats.ShareOfTotal.IsZero(), "kind %s", kind)
	}
}
