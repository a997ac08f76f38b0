package clean

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/emload/internal/csvfile"
	"github.com/vvka-141/emload/pkg/emload"
)

func validRaw() csvfile.RawRecord {
	return csvfile.RawRecord{
		Line:              2,
		EmployeeID:        "101",
		Name:              "  alice smith ",
		Age:               "34",
		Department:        "Oprations",
		DateOfJoining:     "2019-04-01",
		YearsOfExperience: "8",
		Country:           " united kingdom ",
		Salary:            "72000",
		PerformanceRating: "High Performer",
	}
}

func TestClean_ValidRow(t *testing.T) {
	c := New(nil)

	rec, err := c.Clean(validRaw())
	require.NoError(t, err)

	assert.Equal(t, int64(101), rec.EmployeeID)
	assert.Equal(t, "Alice Smith", rec.Name)
	assert.Equal(t, "OPERATIONS", rec.Department)
	assert.Equal(t, "United Kingdom", rec.Country)
	assert.Equal(t, 34, rec.Age)
	assert.Equal(t, 8, rec.YearsOfExperience)
	assert.Equal(t, int64(72000), rec.Salary)
	assert.Equal(t, time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC), rec.DateOfJoining)
	assert.Equal(t, "High Performer", rec.PerformanceRating)
}

func TestClean_TrimsAllStringFields(t *testing.T) {
	c := New(nil)

	raw := validRaw()
	raw.Name = "   bob jones   "
	raw.Country = "\tcanada\t"
	raw.PerformanceRating = "  Average  "

	rec, err := c.Clean(raw)
	require.NoError(t, err)

	for _, s := range []string{rec.Name, rec.Department, rec.Country, rec.PerformanceRating} {
		assert.Equal(t, s, trimmed(s), "field %q has surrounding whitespace", s)
	}
	assert.Equal(t, "Bob Jones", rec.Name)
	assert.Equal(t, "Canada", rec.Country)
	assert.Equal(t, "Average", rec.PerformanceRating)
}

func trimmed(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

func TestClean_OptionalFieldDefaults(t *testing.T) {
	c := New(nil)

	raw := validRaw()
	raw.Name = ""
	raw.Country = "   "
	raw.PerformanceRating = ""
	raw.Age = ""
	raw.YearsOfExperience = "eight"

	rec, err := c.Clean(raw)
	require.NoError(t, err)

	assert.Equal(t, emload.UnknownText, rec.Name)
	assert.Equal(t, emload.UnknownText, rec.Country)
	assert.Equal(t, emload.UnknownText, rec.PerformanceRating)
	assert.Equal(t, emload.MissingNumber, rec.Age)
	assert.Equal(t, emload.MissingNumber, rec.YearsOfExperience)
}

func TestClean_RejectsRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*csvfile.RawRecord)
	}{
		{"missing employee id", func(r *csvfile.RawRecord) { r.EmployeeID = "" }},
		{"non-numeric employee id", func(r *csvfile.RawRecord) { r.EmployeeID = "EMP-7" }},
		{"zero employee id", func(r *csvfile.RawRecord) { r.EmployeeID = "0" }},
		{"missing salary", func(r *csvfile.RawRecord) { r.Salary = "" }},
		{"non-numeric salary", func(r *csvfile.RawRecord) { r.Salary = "72k" }},
		{"negative salary", func(r *csvfile.RawRecord) { r.Salary = "-1" }},
		{"missing date", func(r *csvfile.RawRecord) { r.DateOfJoining = "" }},
		{"unparseable date", func(r *csvfile.RawRecord) { r.DateOfJoining = "sometime in 2019" }},
		{"out of range date", func(r *csvfile.RawRecord) { r.DateOfJoining = "2019-13-45" }},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			_, err := c.Clean(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, emload.ErrRowRejected), "expected ErrRowRejected, got: %v", err)
		})
	}
}

func TestClean_AcceptedDateLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2021-03-15", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"03/15/2021", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2021/03/15", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15-Mar-2021", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			raw := validRaw()
			raw.DateOfJoining = tt.input

			rec, err := c.Clean(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.DateOfJoining)
		})
	}
}
