package domains

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "acme", normalize(" Acme "))
	require.Equal(t, "myshop", normalize("My Shop.com"))
	require.Equal(t, "x", normalize("x.io"))
	require.Equal(t, "", normalize(".com"))
}

func TestRegistryAvailableIsDeterministic(t *testing.T) {
	for _, d := range []string{"acme.com", "acme.io", "startup.dev"} {
		first := registryAvailable(d)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, registryAvailable(d))
		}
	}
}
