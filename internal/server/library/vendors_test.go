package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordAt(vendor string, score int, ts time.Time) Record {
	return Record{ID: vendor + ts.String(), VendorName: vendor, Score: score, Timestamp: ts}
}

func TestGroupByVendor(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []Record{
		recordAt("Acme", 80, base),
		recordAt("acme ", 61, base.Add(2*time.Hour)),
		recordAt("Globex", 90, base.Add(time.Hour)),
		recordAt("", 50, base.Add(3*time.Hour)),
	}

	groups := GroupByVendor(records)
	require.Len(t, groups, 3)

	// ordered by most recent interaction first
	assert.Equal(t, unknownVendor, groups[0].Name)
	assert.Equal(t, "Acme", groups[1].Name)
	assert.Equal(t, "Globex", groups[2].Name)

	acme := groups[1]
	assert.Equal(t, 2, acme.ProposalCount)
	// mean of 80 and 61 is 70.5, rounded to 71
	assert.Equal(t, 71, acme.AvgScore)
	assert.Equal(t, base.Add(2*time.Hour), acme.LastInteraction)
	// members are newest first
	assert.Equal(t, 61, acme.Items[0].Score)
	assert.Equal(t, 80, acme.Items[1].Score)
}

func TestGroupByVendor_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []Record{
		recordAt("Acme", 80, base),
		recordAt("Globex", 90, base.Add(time.Hour)),
		recordAt("Acme", 70, base.Add(2*time.Hour)),
	}

	first := GroupByVendor(records)
	second := GroupByVendor(records)
	assert.Equal(t, first, second)
}

func TestGroupByVendor_Empty(t *testing.T) {
	assert.Empty(t, GroupByVendor(nil))
}
