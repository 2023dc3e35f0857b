package export

import (
	"encoding/json"
	"time"

	"github.com/futurewallet/wallet/engine"
)

// Document is the JSON export shape: the scenario name, when the export
// was generated, the run summary, the weekly downsamples, and the
// shocks that fired. Daily snapshots stay in memory only.
type Document struct {
	ScenarioName    string              `json:"scenarioName"`
	GeneratedAt     time.Time           `json:"generatedAt"`
	Summary         engine.Summary      `json:"summary"`
	WeeklySnapshots []engine.Snapshot   `json:"weeklySnapshots"`
	FiredShocks     []engine.FiredShock `json:"firedShocks"`
}

// ToJSON renders the result as an indented JSON document.
func ToJSON(res *engine.Result, scenarioName string, generatedAt time.Time) ([]byte, error) {
	doc := Document{
		ScenarioName:    scenarioName,
		GeneratedAt:     generatedAt,
		Summary:         res.Summary,
		WeeklySnapshots: res.WeeklySnapshots,
		FiredShocks:     res.FiredShocks,
	}
	return json.MarshalIndent(doc, "", "  ")
}
