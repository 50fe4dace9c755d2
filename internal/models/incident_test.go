package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIncidentType_KnownValues(t *testing.T) {
	for _, typ := range IncidentTypes() {
		assert.Equal(t, typ, ParseIncidentType(string(typ)))
	}
}

func TestParseIncidentType_UnknownFallsBackToTech(t *testing.T) {
	assert.Equal(t, TypeTech, ParseIncidentType("FIRE"))
	assert.Equal(t, TypeTech, ParseIncidentType(""))
	assert.Equal(t, TypeTech, ParseIncidentType("health")) // регистр значим
}

func TestParseIncidentStatus_KnownValues(t *testing.T) {
	for _, status := range IncidentStatuses() {
		assert.Equal(t, status, ParseIncidentStatus(string(status)))
	}
}

func TestParseIncidentStatus_UnknownFallsBackToOpen(t *testing.T) {
	assert.Equal(t, StatusOpen, ParseIncidentStatus("CLOSED"))
	assert.Equal(t, StatusOpen, ParseIncidentStatus(""))
}

func TestTypeMetadata(t *testing.T) {
	assert.Equal(t, "Sağlık", TypeHealth.Label())
	assert.Equal(t, "favorite", TypeHealth.Icon())
	assert.Equal(t, "#EF4444", TypeHealth.Color())
	assert.Equal(t, "Teknik Arıza", TypeTech.Label())

	// Неизвестный тип получает метаданные TECH
	assert.Equal(t, "Teknik Arıza", IncidentType("FIRE").Label())
}

func TestStatusMetadata(t *testing.T) {
	assert.Equal(t, "Açık", StatusOpen.Label())
	assert.Equal(t, "İnceleniyor", StatusInProgress.Label())
	assert.Equal(t, "Çözüldü", StatusResolved.Label())
	assert.Equal(t, "#10B981", StatusResolved.Color())
}
