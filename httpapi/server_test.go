package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurewallet/wallet/engine"
	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
	"github.com/futurewallet/wallet/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	ts := httptest.NewServer(New(log, st).Router())
	t.Cleanup(ts.Close)
	return ts
}

func apiScenario(t *testing.T) scenario.Scenario {
	t.Helper()

	return scenario.Scenario{
		Name:         "api scenario",
		HorizonDays:  28,
		BaseCurrency: fxrate.USD,
		FX: scenario.FXConfig{
			BaseRates:  fxrate.Rates{EUR: 0.9, PKR: 280},
			Volatility: 0,
		},
		StartingCash: 1000,
		Incomes: []scenario.IncomeStream{
			{ID: "salary", Name: "Salary", MonthlyAmount: 3000, Currency: fxrate.USD, DayOfMonth: 1},
		},
		TaxBrackets: []scenario.TaxBracket{{Floor: 0, Ceiling: 1_000_000, Rate: 0.1}},
		Shocks: []scenario.ShockPreset{
			{ID: "vet", Name: "Vet", Day: 3, Amount: -200, Currency: fxrate.USD, Enabled: true, Severity: 1},
		},
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSimulateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/simulate", apiScenario(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeBody[engine.Result](t, resp)
	assert.Len(t, res.DailySnapshots, 29)
	assert.Len(t, res.FiredShocks, 1)
}

func TestSimulateRejectsInvalid(t *testing.T) {
	ts := newTestServer(t)

	cfg := apiScenario(t)
	cfg.HorizonDays = 0

	resp := postJSON(t, ts.URL+"/api/simulate", cfg)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Contains(t, body["error"], "horizonDays")
}

func TestCounterfactualEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/simulate/counterfactual", apiScenario(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeBody[engine.CounterfactualResult](t, resp)
	require.NotNil(t, res.WithShocks)
	require.NotNil(t, res.WithoutShocks)
	assert.Empty(t, res.WithoutShocks.FiredShocks)
}

func TestScenarioLifecycle(t *testing.T) {
	ts := newTestServer(t)

	created := decodeBody[map[string]any](t, postJSON(t, ts.URL+"/api/scenarios", apiScenario(t)))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	listResp, err := http.Get(ts.URL + "/api/scenarios")
	require.NoError(t, err)
	listed := decodeBody[[]map[string]any](t, listResp)
	require.Len(t, listed, 1)
	assert.Equal(t, "api scenario", listed[0]["name"])

	getResp, err := http.Get(fmt.Sprintf("%s/api/scenarios/%s", ts.URL, id))
	require.NoError(t, err)
	got := decodeBody[scenario.Scenario](t, getResp)
	assert.Equal(t, apiScenario(t), got)

	branchResp := postJSON(t, fmt.Sprintf("%s/api/scenarios/%s/branch", ts.URL, id),
		map[string]any{"day": 14, "name": "fork"})
	require.Equal(t, http.StatusCreated, branchResp.StatusCode)
	branch := decodeBody[map[string]any](t, branchResp)
	assert.Equal(t, id, branch["parentId"])

	shareResp := postJSON(t, fmt.Sprintf("%s/api/scenarios/%s/share", ts.URL, id), nil)
	require.Equal(t, http.StatusCreated, shareResp.StatusCode)
	token := decodeBody[map[string]string](t, shareResp)["token"]
	require.NotEmpty(t, token)

	resolved, err := http.Get(ts.URL + "/api/share/" + token)
	require.NoError(t, err)
	shared := decodeBody[scenario.Scenario](t, resolved)
	assert.Equal(t, apiScenario(t), shared)
}

func TestExportCSVEndpoint(t *testing.T) {
	ts := newTestServer(t)

	created := decodeBody[map[string]any](t, postJSON(t, ts.URL+"/api/scenarios", apiScenario(t)))
	id, _ := created["id"].(string)

	resp, err := http.Get(fmt.Sprintf("%s/api/scenarios/%s/export.csv", ts.URL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	assert.Equal(t, "scenarioName,day,balance,balanceP5,balanceP95,nav,navP5,navP95,creditScore", lines[0])
	assert.Len(t, lines, 1+29)
}

func TestUnknownScenarioReturns404(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/scenarios/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/share/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
