package kafka

import (
	"testing"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	scoredAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	county := domain.ScoredCounty{
		CountyRecord: domain.CountyRecord{
			CountyName: "CHELAN",
			Population: 79000,
		},
		CompositeScore: 52.5,
		RiskCategory:   domain.RiskModerate,
		ClimateTrend:   domain.TrendWarming,
		ScoredAt:       scoredAt,
	}

	msg, err := serializeToMessage(county)
	require.NoError(t, err)

	assert.Equal(t, []byte("CHELAN"), msg.Key)
	assert.Contains(t, string(msg.Value), `"county_name":"CHELAN"`)
	assert.Contains(t, string(msg.Value), `"composite_score":52.5`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "risk_category", msg.Headers[0].Key)
	assert.Equal(t, []byte(domain.RiskModerate), msg.Headers[0].Value)
	assert.Equal(t, "scored_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(scoredAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_KeysByCountyName(t *testing.T) {
	a, err := serializeToMessage(domain.ScoredCounty{
		CountyRecord: domain.CountyRecord{CountyName: "OKANOGAN"},
	})
	require.NoError(t, err)
	b, err := serializeToMessage(domain.ScoredCounty{
		CountyRecord: domain.CountyRecord{CountyName: "KING"},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("OKANOGAN"), a.Key)
	assert.Equal(t, []byte("KING"), b.Key)
}
