package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,irradiance,temperature,humidity,wind_speed,town
2024-06-01 10:00:00,450.0,25.1,60.2,3.4,adjuntas
2024-06-01 08:00:00,120.5,21.0,70.1,2.2,adjuntas
2024-06-01 09:00:00,300.2,23.5,65.0,2.8,san_juan
`

func TestReadSortsChronologically(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.Nil(t, err)
	require.Equal(t, 3, tbl.Len())

	for i := 1; i < tbl.Len(); i++ {
		assert.True(t, tbl.T[i-1].Before(tbl.T[i]))
	}

	irr, err := tbl.Column(Irradiance)
	require.Nil(t, err)
	assert.Equal(t, []float64{120.5, 300.2, 450.0}, irr)
	assert.Equal(t, []string{"adjuntas", "san_juan", "adjuntas"}, tbl.Groups)
}

func TestReadWithoutGroupColumn(t *testing.T) {
	csv := `date,irradiance,temperature,humidity,wind_speed
2024-06-01 08:00:00,120.5,21.0,70.1,2.2
`
	tbl, err := Read(strings.NewReader(csv))
	require.Nil(t, err)
	assert.Nil(t, tbl.Groups)
}

func TestReadErrors(t *testing.T) {
	testData := map[string]struct {
		csv      string
		expError error
	}{
		"missing required column": {
			csv:      "date,irradiance,temperature,humidity\n2024-06-01,1,2,3\n",
			expError: ErrMissingColumn,
		},
		"missing date column": {
			csv:      "irradiance,temperature,humidity,wind_speed\n1,2,3,4\n",
			expError: ErrMissingColumn,
		},
		"unparseable date": {
			csv:      "date,irradiance,temperature,humidity,wind_speed\nnot-a-date,1,2,3,4\n",
			expError: ErrUnparseableDate,
		},
		"no rows": {
			csv:      "date,irradiance,temperature,humidity,wind_speed\n",
			expError: ErrNoRows,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(td.csv))
			require.ErrorIs(t, err, td.expError)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does_not_exist.csv"))
	require.NotNil(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned_dataset.csv")
	require.Nil(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	tbl, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), tbl.T[0])
}

func TestFillGapsInterior(t *testing.T) {
	csv := strings.Builder{}
	csv.WriteString("date,irradiance,temperature,humidity,wind_speed\n")
	csv.WriteString("2024-06-01 00:00:00,100,20,60,2\n")
	csv.WriteString("2024-06-01 01:00:00,,20,60,2\n")
	csv.WriteString("2024-06-01 02:00:00,,20,60,2\n")
	csv.WriteString("2024-06-01 03:00:00,,20,60,2\n")
	csv.WriteString("2024-06-01 04:00:00,,20,60,2\n")
	csv.WriteString("2024-06-01 05:00:00,,20,60,2\n")
	csv.WriteString("2024-06-01 06:00:00,200,20,60,2\n")

	tbl, err := Read(strings.NewReader(csv.String()))
	require.Nil(t, err)
	require.Equal(t, 5, tbl.MissingCount())

	filled := tbl.FillGaps()
	assert.Equal(t, 5, filled)
	assert.Equal(t, 0, tbl.MissingCount())

	// interior gaps carry the last valid value forward
	irr, err := tbl.Column(Irradiance)
	require.Nil(t, err)
	assert.Equal(t, []float64{100, 100, 100, 100, 100, 100, 200}, irr)
}

func TestFillGapsLeading(t *testing.T) {
	csv := `date,irradiance,temperature,humidity,wind_speed
2024-06-01 00:00:00,,20,60,2
2024-06-01 01:00:00,,20,60,2
2024-06-01 02:00:00,300,20,60,2
`
	tbl, err := Read(strings.NewReader(csv))
	require.Nil(t, err)

	tbl.FillGaps()
	irr, err := tbl.Column(Irradiance)
	require.Nil(t, err)
	// leading gaps take the next valid value backward
	assert.Equal(t, []float64{300, 300, 300}, irr)
}

func TestFillGapsAllMissing(t *testing.T) {
	csv := `date,irradiance,temperature,humidity,wind_speed
2024-06-01 00:00:00,,20,60,2
2024-06-01 01:00:00,,20,60,2
`
	tbl, err := Read(strings.NewReader(csv))
	require.Nil(t, err)

	tbl.FillGaps()
	irr, err := tbl.Column(Irradiance)
	require.Nil(t, err)
	for _, v := range irr {
		assert.True(t, math.IsNaN(v))
	}
}

func TestTail(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.Nil(t, err)

	res := tbl.Tail(2)
	assert.Equal(t, 2, res.Len())
	irr, err := res.Column(Irradiance)
	require.Nil(t, err)
	assert.Equal(t, []float64{300.2, 450.0}, irr)
	assert.Equal(t, []string{"san_juan", "adjuntas"}, res.Groups)

	// a cap at or beyond the table size is a no-op
	assert.Equal(t, tbl, tbl.Tail(0))
	assert.Equal(t, tbl, tbl.Tail(3))
	assert.Equal(t, tbl, tbl.Tail(100))
}

func TestColumnUnknown(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.Nil(t, err)

	_, err = tbl.Column("pressure")
	require.ErrorIs(t, err, ErrUnknownColumn)
}
