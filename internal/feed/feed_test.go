package feed

import (
	"testing"

	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIncidents() []models.Incident {
	return []models.Incident{
		{ID: "1", Type: models.TypeHealth, Title: "Revirde ilaç bitti", Status: models.StatusOpen, Date: 300},
		{ID: "2", Type: models.TypeTech, Title: "Projeksiyon arızası", Description: "B blok amfi", Status: models.StatusResolved, Date: 200},
		{ID: "3", Type: models.TypeSecurity, Title: "Kapı kilidi kırık", Status: models.StatusInProgress, Date: 100},
	}
}

func TestVisibleIncidents_NoFilter_ReturnsAllInOrder(t *testing.T) {
	all := sampleIncidents()
	user := models.User{ID: "u1"}

	visible := VisibleIncidents(all, Filter{}, user)

	require.Len(t, visible, 3)
	assert.Equal(t, "1", visible[0].ID)
	assert.Equal(t, "2", visible[1].ID)
	assert.Equal(t, "3", visible[2].ID)
}

func TestVisibleIncidents_TypeFilter(t *testing.T) {
	all := sampleIncidents()
	user := models.User{ID: "u1"}
	f := Filter{}.ToggleType(models.TypeTech)

	visible := VisibleIncidents(all, f, user)

	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].ID)
}

func TestVisibleIncidents_FiltersAreConjunctive(t *testing.T) {
	// Тип и статус должны совпасть одновременно, а не по отдельности
	all := sampleIncidents()
	user := models.User{ID: "u1"}
	f := Filter{}.ToggleType(models.TypeTech).ToggleStatus(models.StatusOpen)

	visible := VisibleIncidents(all, f, user)

	assert.Empty(t, visible)
}

func TestVisibleIncidents_OnlyFollowed(t *testing.T) {
	all := sampleIncidents()
	user := models.User{ID: "u1", FollowedIncidents: []string{"2"}}
	f := Filter{OnlyFollowed: true}

	visible := VisibleIncidents(all, f, user)

	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].ID)
}

func TestVisibleIncidents_CombinedScenario(t *testing.T) {
	all := sampleIncidents()
	user := models.User{ID: "u1", FollowedIncidents: []string{"2", "3"}}
	f := Filter{OnlyFollowed: true}.ToggleType(models.TypeTech)

	visible := VisibleIncidents(all, f, user)

	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].ID)
}

func TestVisibleIncidents_DanglingFollowIsHarmless(t *testing.T) {
	// Подписка на удалённое событие просто ничего не находит
	all := sampleIncidents()
	user := models.User{ID: "u1", FollowedIncidents: []string{"deleted-id"}}
	f := Filter{OnlyFollowed: true}

	visible := VisibleIncidents(all, f, user)

	assert.Empty(t, visible)
}

func TestToggleType_ReselectClearsFilter(t *testing.T) {
	f := Filter{}.ToggleType(models.TypeHealth)
	require.NotNil(t, f.Type)
	assert.Equal(t, models.TypeHealth, *f.Type)

	f = f.ToggleType(models.TypeHealth)
	assert.Nil(t, f.Type)
}

func TestToggleType_SwitchReplacesSelection(t *testing.T) {
	f := Filter{}.ToggleType(models.TypeHealth).ToggleType(models.TypeSecurity)
	require.NotNil(t, f.Type)
	assert.Equal(t, models.TypeSecurity, *f.Type)
}

func TestToggleStatus_ReselectClearsFilter(t *testing.T) {
	f := Filter{}.ToggleStatus(models.StatusResolved)
	require.NotNil(t, f.Status)
	assert.Equal(t, models.StatusResolved, *f.Status)

	f = f.ToggleStatus(models.StatusResolved)
	assert.Nil(t, f.Status)
}

func TestToggleFollowed_FlipsFlag(t *testing.T) {
	f := Filter{}.ToggleFollowed()
	assert.True(t, f.OnlyFollowed)

	f = f.ToggleFollowed()
	assert.False(t, f.OnlyFollowed)
}

func TestToggleFollow_AddsWhenAbsent(t *testing.T) {
	user := models.User{ID: "u1", FollowedIncidents: []string{"1"}}

	updated := ToggleFollow(user, "2")

	assert.ElementsMatch(t, []string{"1", "2"}, updated.FollowedIncidents)
}

func TestToggleFollow_RemovesWhenPresent(t *testing.T) {
	user := models.User{ID: "u1", FollowedIncidents: []string{"1", "2"}}

	updated := ToggleFollow(user, "2")

	assert.ElementsMatch(t, []string{"1"}, updated.FollowedIncidents)
}

func TestToggleFollow_TwiceRestoresOriginalSet(t *testing.T) {
	user := models.User{ID: "u1", FollowedIncidents: []string{"1", "3"}}

	updated := ToggleFollow(ToggleFollow(user, "2"), "2")

	assert.ElementsMatch(t, user.FollowedIncidents, updated.FollowedIncidents)
}

func TestToggleFollow_DoesNotMutateInput(t *testing.T) {
	user := models.User{ID: "u1", FollowedIncidents: []string{"1"}}

	_ = ToggleFollow(user, "2")

	assert.Equal(t, []string{"1"}, user.FollowedIncidents)
}

func TestSearchIncidents_MatchesTitleAndDescription(t *testing.T) {
	all := sampleIncidents()

	byTitle := SearchIncidents(all, "projeksiyon")
	require.Len(t, byTitle, 1)
	assert.Equal(t, "2", byTitle[0].ID)

	// Турецкая İ сворачивается в i простым маппингом strings.ToLower
	byDescription := SearchIncidents(all, "AMFİ")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "2", byDescription[0].ID)

	byDescription = SearchIncidents(all, "amfi")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "2", byDescription[0].ID)
}

func TestSearchIncidents_EmptyQueryMatchesAll(t *testing.T) {
	all := sampleIncidents()

	assert.Equal(t, all, SearchIncidents(all, ""))
}

func TestSearchIncidents_NoMatch(t *testing.T) {
	all := sampleIncidents()

	assert.Empty(t, SearchIncidents(all, "asansör"))
}
