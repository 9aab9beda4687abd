package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Airside/internal/logging"
	"Airside/internal/standards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memStandards struct {
	tables map[string][]standards.Record
}

func (m *memStandards) ReplaceTable(_ context.Context, table string, recs []standards.Record) error {
	m.tables[table] = recs
	return nil
}

func (m *memStandards) LoadTables(context.Context) (map[string][]standards.Record, error) {
	return m.tables, nil
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "boilers"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("boilers", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func upload(t *testing.T, h *Handler, target string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "standards.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Standards(rec, req)
	return rec
}

var boilerRows = [][]any{
	{"template", "fuel_type", "minimum_capacity", "maximum_capacity", "minimum_thermal_efficiency"},
	{"90.1-2010", "NaturalGas", 0, 300000, 0.8},
	{"90.1-2010", "NaturalGas", 300000, 2500000, 0.8},
}

func TestPreview(t *testing.T) {
	h := &Handler{Log: logging.Discard()}
	rec := upload(t, h, "/", workbook(t, boilerRows))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Tables, 1)
	assert.Equal(t, "boilers", res.Tables[0].Name)
	assert.Equal(t, 2, res.Tables[0].Records)
	assert.Contains(t, res.Tables[0].Fields, "minimum_thermal_efficiency")
	assert.False(t, res.Committed)

	rec = upload(t, h, "/?commit=true", workbook(t, boilerRows))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommit(t *testing.T) {
	store := &memStandards{tables: map[string][]standards.Record{}}
	h := &Handler{Repo: store, Log: logging.Discard()}
	rec := upload(t, h, "/?commit=true", workbook(t, boilerRows))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, store.tables["boilers"], 2)
	hi, ok := store.tables["boilers"][1].Float("maximum_capacity")
	require.True(t, ok)
	assert.Equal(t, 2500000.0, hi)
}

func TestRejectsInvertedBand(t *testing.T) {
	rows := [][]any{
		{"template", "minimum_capacity", "maximum_capacity"},
		{"T", 10, 5},
	}
	rec := upload(t, &Handler{Log: logging.Discard()}, "/", workbook(t, rows))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequiresFile(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Standards(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
