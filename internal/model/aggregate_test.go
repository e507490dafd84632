package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyAggregate_JSONOmitsZeroDate(t *testing.T) {
	totals := DailyAggregate{Present: 2, Late: 1, Absent: 1, Total: 4}

	b, err := json.Marshal(totals)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "date")
	assert.NotContains(t, string(b), "0000-00-00")

	var back DailyAggregate
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, totals, back)
}

func TestReport_JSONRoundTripWithTotals(t *testing.T) {
	day := MustParseDate("2025-03-16")
	in := Report{
		Range:  DateRange{Start: day, End: day},
		Daily:  []DailyAggregate{{Date: day, Label: "16 Sun", Present: 1, Total: 1}},
		Totals: DailyAggregate{Present: 1, Total: 1},
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":"2025-03-16"`)

	var out Report
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in.Daily, out.Daily)
	assert.Equal(t, in.Totals, out.Totals)
	assert.True(t, out.Totals.Date.IsZero())
}
