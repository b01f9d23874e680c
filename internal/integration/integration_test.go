package integration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(t *testing.T, zsh string, zshErr error, binary string, binaryErr error) {
	t.Helper()

	origLookPath, origExecutable := lookPath, executable
	lookPath = func(string) (string, error) { return zsh, zshErr }
	executable = func() (string, error) { return binary, binaryErr }

	t.Cleanup(func() {
		lookPath, executable = origLookPath, origExecutable
	})
}

func TestRender(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		stub(t, "/bin/zsh", nil, "/usr/local/bin/dirscope", nil)

		rendered, err := Render()
		require.NoError(t, err)
		assert.Contains(t, rendered, "#!/bin/zsh\n")
		assert.Contains(t, rendered, "'/usr/local/bin/dirscope' --output plain")
		assert.Contains(t, rendered, "dscd()")
	})

	t.Run("unknown binary", func(t *testing.T) {
		stub(t, "/bin/zsh", nil, "", errors.New("unsupported"))

		rendered, err := Render()
		require.NoError(t, err)
		assert.Contains(t, rendered, "'dirscope' --output plain")
	})

	t.Run("no zsh", func(t *testing.T) {
		stub(t, "", errors.New("not found"), "", nil)

		_, err := Render()
		assert.Error(t, err)
	})
}
