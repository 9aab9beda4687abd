package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Airside/internal/calc/multizone"
	"Airside/internal/compliance"
	"Airside/internal/findings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *compliance.Report {
	f := findings.NewReport()
	f.AddWarning(findings.Finding{Kind: findings.KindLookupMiss, Object: "Chiller 1", Message: "search returned no results"})
	return &compliance.Report{
		ID:            uuid.New(),
		Template:      "90.1-2010",
		Model:         "Small Office",
		ZonesAdjusted: 1,
		AirLoops: []compliance.LoopResult{
			{AirLoop: "VAV_1", Multizone: true, Sizing: &multizone.Result{Vou: 0.1595, Ev: 0.5, EvAdj: 0.6, VotAdj: 0.2658, ZonesAdjusted: 1}},
			{AirLoop: "PSZ_1"},
		},
		Findings: f,
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Input{Project: "P", Run: sampleRun()}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestGenerate(t *testing.T) {
	body, err := json.Marshal(Input{Title: "Run", Run: sampleRun()})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	(&Handler{}).Generate(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = httptest.NewRecorder()
	(&Handler{}).Generate(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("nope"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
