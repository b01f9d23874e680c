package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	New(false, &buf).Debug("hidden")
	assert.Empty(t, buf.String())

	New(true, &buf).Debug("scanning", zap.String("path", "/tmp"))
	assert.Contains(t, buf.String(), "scanning")
	assert.Contains(t, buf.String(), `"path": "/tmp"`)
	assert.Contains(t, buf.String(), "DEBUG")
}
