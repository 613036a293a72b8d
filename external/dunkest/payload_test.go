package dunkest

import (
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestMapPreviewPlayers_DefaultsAndTrimming(t *testing.T) {
	t.Parallel()

	raw := `{
		"data": {
			"players": [
				{
					"id": 301,
					"first_name": " Giannis ",
					"last_name": " Antetokounmpo ",
					"position": {"name": " Forward "},
					"team": {"abbreviation": " MIL "},
					"pts": 48.5,
					"quotation": 39.2,
					"is_captain": true,
					"captain_multiplier": 2,
					"court_position": 1
				},
				{
					"id": 302,
					"first_name": "Sparse",
					"last_name": "Fields"
				}
			]
		}
	}`

	var envelope previewEnvelope
	require.NoError(t, sonic.Unmarshal([]byte(raw), &envelope))
	require.NotNil(t, envelope.Data)

	players := mapPreviewPlayers(envelope.Data.Players)
	require.Len(t, players, 2)

	full := players[0]
	require.Equal(t, "Giannis Antetokounmpo", full.FullName())
	require.Equal(t, "Forward", full.Position)
	require.Equal(t, "MIL", full.ClubAbbr)
	require.Equal(t, 48.5, full.Points)
	require.True(t, full.IsCaptain)
	require.Equal(t, 2.0, full.CaptainMultiplier)
	require.Equal(t, 1, full.CourtPosition)

	sparse := players[1]
	require.Equal(t, 0.0, sparse.Points)
	require.False(t, sparse.IsCaptain)
	require.Equal(t, 1.0, sparse.CaptainMultiplier)
	require.Equal(t, 0, sparse.CourtPosition)
	require.False(t, sparse.OnBench())
}

func TestMapPreviewPlayers_NegativePointsKept(t *testing.T) {
	t.Parallel()

	pts := -4.5
	players := mapPreviewPlayers([]previewPlayer{{ID: 9, Points: &pts}})
	require.Equal(t, -4.5, players[0].Points)
}
