// Package export renders simulation results as flat CSV and as a JSON
// document suitable for download or sharing. It consumes results by
// value and never reaches back into the engine.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/futurewallet/wallet/engine"
)

var csvHeader = []string{
	"scenarioName", "day",
	"balance", "balanceP5", "balanceP95",
	"nav", "navP5", "navP95",
	"creditScore",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per daily snapshot to w.
func WriteCSV(w io.Writer, res *engine.Result, scenarioName string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range res.DailySnapshots {
		row := []string{
			scenarioName,
			strconv.Itoa(s.Day),
			formatFloat(s.Balance),
			formatFloat(s.BalanceP5),
			formatFloat(s.BalanceP95),
			formatFloat(s.NAV),
			formatFloat(s.NAVP5),
			formatFloat(s.NAVP95),
			formatFloat(s.CreditScore),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToCSV renders the per-day CSV as a string.
func ToCSV(res *engine.Result, scenarioName string) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, res, scenarioName); err != nil {
		return "", err
	}
	return sb.String(), nil
}
