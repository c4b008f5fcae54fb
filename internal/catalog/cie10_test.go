package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchDiagnosticCodes_EmptyQueryReturnsFullTable(t *testing.T) {
	got := SearchDiagnosticCodes("")
	require.Len(t, got, 14, "expected the full table")
	assert.Equal(t, "K02.0", got[0].Code, "table order must be stable")
}

func TestSearchDiagnosticCodes_PrefixSortsBeforeSubstring(t *testing.T) {
	// "s" prefixes only the S02.5 code, which sits mid-table; every other
	// match is a name substring and must trail it in stable table order.
	got := SearchDiagnosticCodes("s")
	require.Len(t, got, 12)
	assert.Equal(t, "S02.5", got[0].Code, "prefix match must sort first")
	assert.Equal(t, "K02.0", got[1].Code, "substring matches must keep table order")
	assert.Equal(t, "K02.1", got[2].Code)
}

func TestSearchDiagnosticCodes_PrefixMatchesKeepRelativeOrder(t *testing.T) {
	got := SearchDiagnosticCodes("caries")
	require.Len(t, got, 3)
	for i, c := range got {
		assert.True(t, strings.HasPrefix(strings.ToLower(c.Name), "caries"),
			"entry %d should be a prefix match: %+v", i, c)
	}
	assert.Equal(t, "K02.0", got[0].Code)
	assert.Equal(t, "K02.1", got[1].Code)
	assert.Equal(t, "K02.9", got[2].Code)
}

func TestSearchDiagnosticCodes_MatchesCode(t *testing.T) {
	got := SearchDiagnosticCodes("k04")
	require.Len(t, got, 2)
	assert.Equal(t, "K04.0", got[0].Code)
	assert.Equal(t, "K04.1", got[1].Code)
}

func TestSearchDiagnosticCodes_NoMatches(t *testing.T) {
	assert.Empty(t, SearchDiagnosticCodes("zzz"))
}
