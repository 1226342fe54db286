package analysis

import (
	"testing"

	"github.com/aruana-vision/apiserver/types"
	"github.com/stretchr/testify/assert"
)

func TestMatchAlertsCaseInsensitiveSubstring(t *testing.T) {
	objects := []types.DetectedObject{{Label: "person standing", Confidence: 0.9}}
	alerts := []types.Alert{{ObjectName: "Person", Enabled: true}}

	fired := MatchAlerts(objects, alerts)
	assert.Equal(t, []string{"Person"}, fired)
}

func TestMatchAlertsSkipsDisabled(t *testing.T) {
	objects := []types.DetectedObject{{Label: "cachorro", Confidence: 0.9}}
	alerts := []types.Alert{{ObjectName: "cachorro", Enabled: false}}

	assert.Empty(t, MatchAlerts(objects, alerts))
}

func TestMatchAlertsFiresPerMatchingObject(t *testing.T) {
	objects := []types.DetectedObject{
		{Label: "carro azul", Confidence: 0.9},
		{Label: "carro vermelho", Confidence: 0.8},
	}
	alerts := []types.Alert{{ObjectName: "carro", Enabled: true}}

	fired := MatchAlerts(objects, alerts)
	assert.Equal(t, []string{"carro", "carro"}, fired)
}

func TestMatchAlertsSkipsEmptyName(t *testing.T) {
	objects := []types.DetectedObject{{Label: "qualquer coisa", Confidence: 0.9}}
	alerts := []types.Alert{{ObjectName: "", Enabled: true}}

	assert.Empty(t, MatchAlerts(objects, alerts))
}

func TestMatchAlertsNoObjects(t *testing.T) {
	alerts := []types.Alert{{ObjectName: "pessoa", Enabled: true}}
	fired := MatchAlerts(nil, alerts)
	assert.NotNil(t, fired)
	assert.Empty(t, fired)
}
