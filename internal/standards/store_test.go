package standards

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadDirectoryConcatenatesInFileOrder(t *testing.T) {
	store, err := Load("testdata/dataset")
	require.NoError(t, err)

	assert.Equal(t, []string{"boilers", "motors"}, store.Names())
	boilers := store.Table("boilers")
	require.Len(t, boilers, 2)
	_, hasAFUE := boilers[0].Float("minimum_annual_fuel_utilization_efficiency")
	assert.True(t, hasAFUE)
	te, ok := boilers[1].Float("minimum_thermal_efficiency")
	assert.True(t, ok)
	assert.Equal(t, 0.8, te)
}

func TestLoadRejectsInvertedBand(t *testing.T) {
	_, err := Load("testdata/bad_band.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum_capacity")
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load("testdata/nope")
	assert.Error(t, err)
}

func TestLoadShippedDataset(t *testing.T) {
	store, err := Load("../../data/standards")
	require.NoError(t, err)
	for _, name := range []string{"motors", "unitary_acs", "chillers", "boilers", "water_heaters"} {
		assert.True(t, store.Has(name), name)
		assert.NotEmpty(t, store.Table(name), name)
	}
}

func TestDecodeJSON(t *testing.T) {
	doc, err := DecodeJSON(strings.NewReader(`{"economizers": [{"template": "90.1-2010", "climate_zone": "ASHRAE 169-2006-5A"}]}`))
	require.NoError(t, err)
	require.Len(t, doc["economizers"], 1)

	_, err = DecodeJSON(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)
}

func TestDecodeWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "motors"))
	require.NoError(t, f.SetSheetRow("motors", "A1", &[]any{"template", "number_of_poles", "type", "minimum_capacity", "maximum_capacity", "nominal_full_load_efficiency"}))
	require.NoError(t, f.SetSheetRow("motors", "A2", &[]any{"90.1-2010", 4, "Enclosed", 0, 1, 0.855}))
	require.NoError(t, f.SetSheetRow("motors", "A3", &[]any{"90.1-2010", 4, "Enclosed", 1, 1.5, 0.865}))
	_, err := f.NewSheet("empty")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	doc, err := DecodeWorkbook(&buf)
	require.NoError(t, err)
	require.Len(t, doc["motors"], 2)
	assert.Empty(t, doc["empty"])

	store, err := NewStore(doc)
	require.NoError(t, err)
	rec, n := FindObject(store.Table("motors"), Criteria{"template": "90.1-2010", "number_of_poles": 4}, Capacity(1.2))
	require.Equal(t, 1, n)
	assert.Equal(t, 0.865, rec["nominal_full_load_efficiency"])
	assert.Equal(t, "Enclosed", rec["type"])
}

func TestParseRowSkipsBlanks(t *testing.T) {
	rec := parseRow([]string{"template", "", "fuel_type", "note"}, []string{"90.1-2013", "x", " ", "TRUE", "extra"})
	assert.Equal(t, Record{"template": "90.1-2013", "note": true}, rec)
}

func TestNilStore(t *testing.T) {
	var s *Store
	assert.Nil(t, s.Table("motors"))
	assert.False(t, s.Has("motors"))
	assert.Empty(t, s.Names())
}
