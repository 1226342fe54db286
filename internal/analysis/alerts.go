package analysis

import (
	"strings"

	"github.com/aruana-vision/apiserver/types"
)

// MatchAlerts cross-references detected object labels against the
// enabled alert rules. An alert fires when its object name is a
// case-insensitive substring of a detected label; an alert matching two
// labels fires twice.
func MatchAlerts(objects []types.DetectedObject, alerts []types.Alert) []string {
	fired := []string{}
	for _, alert := range alerts {
		if !alert.Enabled {
			continue
		}
		needle := strings.ToLower(alert.ObjectName)
		if needle == "" {
			continue
		}
		for _, obj := range objects {
			if strings.Contains(strings.ToLower(obj.Label), needle) {
				fired = append(fired, alert.ObjectName)
			}
		}
	}
	return fired
}
