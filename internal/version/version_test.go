package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.Equal(t, "dev", GetVersion())
	require.Equal(t, "unknown", GetCommit())
	require.Equal(t, "unknown", GetDate())

	v, c, d := Info()
	require.Equal(t, GetVersion(), v)
	require.Equal(t, GetCommit(), c)
	require.Equal(t, GetDate(), d)
}

func TestString(t *testing.T) {
	require.Equal(t, "version=dev commit=unknown date=unknown", String())
}
