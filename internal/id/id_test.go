package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a := New(PrefixImport)
	b := New(PrefixImport)
	assert.NotEqual(t, a, b)
	assert.True(t, HasPrefix(a, PrefixImport))
	assert.False(t, HasPrefix(a, PrefixCommittee))
}

func TestFormatID(t *testing.T) {
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "tx-6ba7b810-9dad-11d1-80b4-00c04fd430c8", FormatID(PrefixRequest, u))
}

func TestParseID(t *testing.T) {
	u := uuid.New()
	prefix, got, err := ParseID(FormatID(PrefixCommittee, u))
	require.NoError(t, err)
	assert.Equal(t, PrefixCommittee, prefix)
	assert.Equal(t, u, got)
}

func TestParseID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"nodash",
		"-6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"tx-notauuid",
	}
	for _, input := range badInputs {
		_, _, err := ParseID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence()
	assert.Equal(t, "import-1", gen(PrefixImport))
	assert.Equal(t, "import-2", gen(PrefixImport))
	assert.Equal(t, "tx-3", gen(PrefixRequest))
}
