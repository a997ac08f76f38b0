package csvfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/emload/pkg/emload"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleHeader = "Employee_ID,Name,Age,Department,Date_of_Joining,Years_of_Experience,Country,Salary,Performance_Rating\n"

func TestOpen_FileNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, errors.Is(err, emload.ErrCSVNotFound), "expected ErrCSVNotFound, got: %v", err)
}

func TestOpen_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	_, err := Open(path)
	assert.True(t, errors.Is(err, emload.ErrBadHeader), "expected ErrBadHeader, got: %v", err)
}

func TestOpen_MissingRequiredColumns(t *testing.T) {
	path := writeCSV(t, "Name,Age,Country\nalice,30,US\n")
	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, emload.ErrBadHeader))
	assert.Contains(t, err.Error(), "employee_id")
	assert.Contains(t, err.Error(), "salary")
}

func TestNext_ReadsRowsByHeaderName(t *testing.T) {
	path := writeCSV(t, sampleHeader+
		"1,alice,30,HR,2020-01-15,5,USA,50000,Good\n"+
		"2,bob,41,IT,2018-06-01,12,Canada,80000,Great\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "1", first.EmployeeID)
	assert.Equal(t, "alice", first.Name)
	assert.Equal(t, "HR", first.Department)
	assert.Equal(t, "2020-01-15", first.DateOfJoining)
	assert.Equal(t, "50000", first.Salary)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "bob", second.Name)

	_, err = r.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestNext_ColumnOrderIndependent(t *testing.T) {
	path := writeCSV(t, "Salary,Employee_ID,Date_of_Joining,Department,Name\n"+
		"90000,7,2022-02-02,Sales,carol\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "7", rec.EmployeeID)
	assert.Equal(t, "90000", rec.Salary)
	assert.Equal(t, "carol", rec.Name)
	// Columns absent from the header come back empty
	assert.Equal(t, "", rec.Age)
	assert.Equal(t, "", rec.Country)
}

func TestNext_HeaderSpellingVariants(t *testing.T) {
	// "Employee Id" and "Date of Joining" appear in some exports.
	path := writeCSV(t, "Employee Id,Name,Department,Date of Joining,Salary\n"+
		"3,dave,Legal,2017-09-09,60000\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "3", rec.EmployeeID)
	assert.Equal(t, "2017-09-09", rec.DateOfJoining)
}

func TestNext_ShortRowYieldsEmptyFields(t *testing.T) {
	path := writeCSV(t, sampleHeader+"5,erin,28\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "5", rec.EmployeeID)
	assert.Equal(t, "erin", rec.Name)
	assert.Equal(t, "", rec.Salary)
	assert.Equal(t, "", rec.DateOfJoining)
}
