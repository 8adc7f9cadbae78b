package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lseverin/mapclash/backend/internal/models"
)

func points(name string, total int) models.TeamPoints {
	return models.TeamPoints{TeamID: primitive.NewObjectID(), Name: name, TotalPoints: total}
}

func TestBuildPossessionNoGuesses(t *testing.T) {
	p := BuildPossession(nil)
	assert.Nil(t, p.TeamA)
	assert.Nil(t, p.TeamB)
	assert.Equal(t, 50, p.PercentA)
	assert.Equal(t, 50, p.PercentB)
	assert.Equal(t, 0, p.TotalPoints)
}

func TestBuildPossessionSingleTeam(t *testing.T) {
	p := BuildPossession([]models.TeamPoints{points("red", 1200)})
	require.NotNil(t, p.TeamA)
	assert.Equal(t, "red", p.TeamA.Name)
	assert.Nil(t, p.TeamB)
	assert.Equal(t, 100, p.PercentA)
	assert.Equal(t, 0, p.PercentB)
	assert.Equal(t, 1200, p.TotalPoints)
}

func TestBuildPossessionTwoTeams(t *testing.T) {
	p := BuildPossession([]models.TeamPoints{points("red", 750), points("blue", 250)})
	require.NotNil(t, p.TeamA)
	require.NotNil(t, p.TeamB)
	assert.Equal(t, "red", p.TeamA.Name)
	assert.Equal(t, "blue", p.TeamB.Name)
	assert.Equal(t, 75, p.PercentA)
	assert.Equal(t, 25, p.PercentB)
	assert.Equal(t, 1000, p.TotalPoints)
}

func TestBuildPossessionPercentsAlwaysSumTo100(t *testing.T) {
	cases := [][2]int{{1, 2}, {333, 667}, {1, 1}, {999, 1}, {100, 200}}
	for _, c := range cases {
		p := BuildPossession([]models.TeamPoints{points("a", c[0]+c[1]), points("b", c[1])})
		assert.Equal(t, 100, p.PercentA+p.PercentB)
	}
}

func TestBuildPossessionThirdTeamExcluded(t *testing.T) {
	p := BuildPossession([]models.TeamPoints{
		points("red", 600),
		points("blue", 300),
		points("green", 100),
	})
	// Only the top two count toward the displayed total.
	assert.Equal(t, 900, p.TotalPoints)
	assert.Equal(t, 67, p.PercentA)
	assert.Equal(t, 33, p.PercentB)
}

func TestBuildPossessionBothZeroTotals(t *testing.T) {
	p := BuildPossession([]models.TeamPoints{points("red", 0), points("blue", 0)})
	assert.Equal(t, 50, p.PercentA)
	assert.Equal(t, 50, p.PercentB)
	assert.Equal(t, 0, p.TotalPoints)
}
