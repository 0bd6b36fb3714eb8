package notation_test

import (
	"testing"

	"github.com/ochess/rbcagent/pkg/rbc"
	"github.com/ochess/rbcagent/pkg/rbc/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	b := rbc.InitialBoard()
	encoded := notation.Encode(&b)
	assert.Equal(t, notation.Initial, encoded)

	decoded, err := notation.Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestParseEnPassant(t *testing.T) {
	b, err := notation.Parse("8/8/8/8/8/8/8/8 - e3")
	require.NoError(t, err)
	assert.Equal(t, rbc.NewPosition(2, 4), b.EnPassantTarget())
}
