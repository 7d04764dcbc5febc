package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHeader = "county_name,population,population_at_risk,tmax_z_mean,tmax_z_max,prcp_z_mean,prcp_z_min,fire_count_noaa,fema_declaration_count,pct_interface,pct_intermix"

func TestRead_ValidRows(t *testing.T) {
	data := validHeader + "\n" +
		"Chelan,79000,31000,1.5,1.0,-0.5,-1.0,25,0,0.6,0.2\n" +
		"okanogan,42000,21000,1.8,2.2,-0.9,-1.6,40,4,0.35,0.4\n"

	records, rejects, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, rejects)
	require.Len(t, records, 2)

	assert.Equal(t, "CHELAN", records[0].CountyName)
	assert.Equal(t, int64(79000), records[0].Population)
	assert.Equal(t, 1.5, records[0].TmaxZMean)
	assert.Equal(t, 25, records[0].FireCountNOAA)

	assert.Equal(t, "OKANOGAN", records[1].CountyName)
	assert.Equal(t, 4, records[1].FEMADeclarationCount)
	assert.Equal(t, 0.4, records[1].PctIntermix)
}

func TestRead_HeaderCaseAndOrderInsensitive(t *testing.T) {
	data := "Population,COUNTY_NAME,population_at_risk,tmax_z_mean,tmax_z_max,prcp_z_mean,prcp_z_min,fire_count_noaa,fema_declaration_count,pct_interface,pct_intermix\n" +
		"79000,Chelan,31000,1.5,1.0,-0.5,-1.0,25,0,0.6,0.2\n"

	records, rejects, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, rejects)
	require.Len(t, records, 1)
	assert.Equal(t, "CHELAN", records[0].CountyName)
	assert.Equal(t, int64(79000), records[0].Population)
}

func TestRead_MissingColumn(t *testing.T) {
	data := "county_name,population\nChelan,79000\n"

	_, _, err := Read(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "population_at_risk")
}

func TestRead_RejectsMalformedRows(t *testing.T) {
	data := validHeader + "\n" +
		"Chelan,79000,31000,1.5,1.0,-0.5,-1.0,25,0,0.6,0.2\n" +
		"Ferry,not-a-number,3000,0.2,0.4,0.1,-0.2,2,0,0.1,0.3\n" + // bad population
		"Asotin,22000,30000,0.2,0.4,0.1,-0.2,2,0,0.1,0.3\n" + // at-risk > population
		"Lincoln,11000,2000,0.2,0.4,0.1,-0.2,2,0,1.7,0.3\n" // pct_interface out of range

	records, rejects, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CHELAN", records[0].CountyName)

	require.Len(t, rejects, 3)
	assert.Equal(t, 3, rejects[0].Line)
	assert.Contains(t, rejects[0].Error(), "population")
	assert.Equal(t, 4, rejects[1].Line)
	assert.Contains(t, rejects[1].Error(), "population_at_risk")
	assert.Equal(t, 5, rejects[2].Line)
	assert.Contains(t, rejects[2].Error(), "pct_interface")
}

func TestRead_EmptyInput(t *testing.T) {
	_, _, err := Read(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestLoadFile_Missing(t *testing.T) {
	_, _, err := LoadFile("does/not/exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open county data")
}

func TestFileSource_LoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.csv")
	data := validHeader + "\n" +
		"Chelan,79000,31000,1.5,1.0,-0.5,-1.0,25,0,0.6,0.2\n" +
		"Ferry,bad,3000,0.2,0.4,0.1,-0.2,2,0,0.1,0.3\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	src := NewFileSource(path)
	records, rejected, err := src.LoadRecords(t.Context())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Len(t, rejected, 1)
}
