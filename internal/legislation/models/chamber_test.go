package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rotunda/pkg/domain-errors"
)

func TestParseChamber(t *testing.T) {
	for in, want := range map[string]Chamber{
		"":        ChamberAll,
		"All":     ChamberAll,
		"house":   ChamberHouse,
		"HOUSE":   ChamberHouse,
		" Senate": ChamberSenate,
	} {
		got, err := ParseChamber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseChamber("joint")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestChamberMatches(t *testing.T) {
	assert.True(t, ChamberAll.Matches("Senate"))
	assert.True(t, ChamberHouse.Matches("House"))
	assert.False(t, ChamberHouse.Matches("Senate"))
	assert.False(t, ChamberSenate.Matches(""))
}
