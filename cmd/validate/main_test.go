package main

import (
	"testing"

	"github.com/couchcryptid/climate-spiral/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Year,Jan,Feb,Mar,Apr,May,Jun,Jul,Aug,Sep,Oct,Nov,Dec,J-D\n"

func TestValidate_Passes(t *testing.T) {
	table := domain.Parse(header +
		"1880,-.18,-.24,-.09,-.16,-.10,-.21,-.18,-.10,-.15,-.23,-.22,-.18,-.17\n" +
		"1881,-.19,-.14,.03,.05,.06,-.19,.00,-.04,***,-.22,-.19,-.07,-.09\n")

	phases, rep := validate(table)
	for _, p := range phases {
		assert.True(t, p.passed(), "%s: %v", p.name, p.errors)
	}
	assert.Equal(t, 22, rep.observations)
	assert.Equal(t, 2, rep.droppedCells, "zero and *** are dropped")
	assert.Equal(t, 1880, rep.firstYear)
	assert.Equal(t, 1881, rep.lastYear)
}

func TestValidate_ShortHeader(t *testing.T) {
	phases, _ := validate(domain.Parse("Year,Jan,Feb\n1880,-.18,-.24"))
	assert.False(t, phases[0].passed())
	assert.True(t, phases[2].passed())
}

func TestValidate_NoObservations(t *testing.T) {
	phases, rep := validate(domain.Parse(header + "Year,Jan\nabc,1,2"))
	assert.False(t, phases[2].passed())
	assert.Zero(t, rep.observations)
	assert.Equal(t, 2, rep.skippedRows)
}

func TestValidate_Empty(t *testing.T) {
	phases, _ := validate(nil)
	require.Len(t, phases, 3)
	assert.False(t, phases[0].passed())
}

func TestValidate_RepeatedYear(t *testing.T) {
	phases, _ := validate(domain.Parse(header + "1880,.1\n1880,.2\n"))
	assert.False(t, phases[1].passed())
	assert.Contains(t, phases[1].errors[0], "year 1880 repeated")
}

func TestValidate_NotChronological(t *testing.T) {
	phases, _ := validate(domain.Parse(header + "1881,.1\n1880,.2\n"))
	assert.False(t, phases[2].passed())
}
