package upload

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/linkscout/linkscout-api/internal/domain/model"
)

func TestParseBatchFile_CSV(t *testing.T) {
	t.Run("parses name and school columns", func(t *testing.T) {
		csv := "Name,School\nJordan Lee,Stanford\nSam Ortiz,Yale\n"

		names, err := ParseBatchFile("alumni.csv", strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, names, 2)
		assert.Equal(t, model.InputName{Name: "Jordan Lee", School: "Stanford"}, names[0])
		assert.Equal(t, model.InputName{Name: "Sam Ortiz", School: "Yale"}, names[1])
	})

	t.Run("header matching is case-insensitive and order-independent", func(t *testing.T) {
		csv := "Email,SCHOOL,name\nx@example.com,Stanford,Jordan Lee\n"

		names, err := ParseBatchFile("alumni.CSV", strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, names, 1)
		assert.Equal(t, "Jordan Lee", names[0].Name)
		assert.Equal(t, "Stanford", names[0].School)
	})

	t.Run("trims cell whitespace and skips blank rows", func(t *testing.T) {
		csv := "Name,School\n  Jordan Lee  ,  Stanford  \n,,\n   ,\nSam Ortiz,Yale\n"

		names, err := ParseBatchFile("alumni.csv", strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, names, 2)
		assert.Equal(t, "Jordan Lee", names[0].Name)
	})

	t.Run("missing school column", func(t *testing.T) {
		csv := "Name,Company\nJordan Lee,Acme\n"

		_, err := ParseBatchFile("alumni.csv", strings.NewReader(csv))
		assert.ErrorIs(t, err, ErrMissingColumns)
	})

	t.Run("empty required cell fails with the row number", func(t *testing.T) {
		csv := "Name,School\nJordan Lee,Stanford\nSam Ortiz,\n"

		_, err := ParseBatchFile("alumni.csv", strings.NewReader(csv))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 3 has empty Name or School cell")
	})

	t.Run("ragged row missing the school cell entirely", func(t *testing.T) {
		csv := "Name,School\nJordan Lee\n"

		_, err := ParseBatchFile("alumni.csv", strings.NewReader(csv))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("header only is rejected", func(t *testing.T) {
		_, err := ParseBatchFile("alumni.csv", strings.NewReader("Name,School\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one data row")
	})

	t.Run("over the batch ceiling", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("Name,School\n")
		for i := 0; i < model.MaxFileBatchSize+1; i++ {
			fmt.Fprintf(&b, "Person %d,Stanford\n", i+1)
		}

		_, err := ParseBatchFile("alumni.csv", strings.NewReader(b.String()))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum 100 names allowed. Your file has 101")
	})

	t.Run("at the batch ceiling", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("Name,School\n")
		for i := 0; i < model.MaxFileBatchSize; i++ {
			fmt.Fprintf(&b, "Person %d,Stanford\n", i+1)
		}

		names, err := ParseBatchFile("alumni.csv", strings.NewReader(b.String()))
		require.NoError(t, err)
		assert.Len(t, names, model.MaxFileBatchSize)
	})
}

func TestParseBatchFile_Excel(t *testing.T) {
	buildWorkbook := func(t *testing.T, rows [][]any) *bytes.Buffer {
		t.Helper()
		f := excelize.NewFile()
		defer f.Close()
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))
		return &buf
	}

	t.Run("parses the first sheet", func(t *testing.T) {
		buf := buildWorkbook(t, [][]any{
			{"Name", "School"},
			{"Jordan Lee", "Stanford"},
			{"Sam Ortiz", "Yale"},
		})

		names, err := ParseBatchFile("alumni.xlsx", buf)
		require.NoError(t, err)
		require.Len(t, names, 2)
		assert.Equal(t, "Sam Ortiz", names[1].Name)
	})

	t.Run("missing columns in workbook", func(t *testing.T) {
		buf := buildWorkbook(t, [][]any{
			{"Full Name", "School"},
			{"Jordan Lee", "Stanford"},
		})

		_, err := ParseBatchFile("alumni.xlsx", buf)
		assert.ErrorIs(t, err, ErrMissingColumns)
	})

	t.Run("garbage bytes are not a workbook", func(t *testing.T) {
		_, err := ParseBatchFile("alumni.xlsx", strings.NewReader("not a zip"))
		require.Error(t, err)
	})
}

func TestParseBatchFile_UnsupportedExtension(t *testing.T) {
	for _, name := range []string{"alumni.txt", "alumni.pdf", "alumni", "alumni.csv.exe"} {
		_, err := ParseBatchFile(name, strings.NewReader("Name,School\nA,B\n"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}
