package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	require.Equal(t, "SR", Initials("Susanne Renken"))
	require.Equal(t, "AK", Initials("Alex Michael Kaljuzhin"))
	require.Equal(t, "G", Initials("guest"))
	require.Equal(t, "", Initials("   "))
}

func TestInitialsHandlesMultibyteNames(t *testing.T) {
	require.Equal(t, "ÖŞ", Initials("Özlem Şahin"))
	require.Equal(t, "É", Initials("émile"))
	require.True(t, utf8.ValidString(Initials("Łukasz Żółty")))
	require.Equal(t, "ŁŻ", Initials("Łukasz Żółty"))
}

func TestRandomColorStaysInDarkPalette(t *testing.T) {
	for i := 0; i < 50; i++ {
		color, err := RandomColor()
		require.NoError(t, err)
		require.Len(t, color, 7)
		require.Equal(t, byte('#'), color[0])
		for _, ch := range color[1:] {
			require.True(t, strings.ContainsRune(colorAlphabet, ch), "unexpected digit %q in %s", ch, color)
		}
	}
}
