package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesTypeAndCause(t *testing.T) {
	err := Startup("cannot read alias file prices/alias.csv", fs.ErrNotExist)

	assert.Equal(t, "[STARTUP_ERROR] cannot read alias file prices/alias.csv: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIsTypeSeesThroughWrapping(t *testing.T) {
	inner := Format("missing '-' in 2020_APRR.tsv")
	wrapped := fmt.Errorf("loading flat prices: %w", inner)

	assert.True(t, IsType(wrapped, TypeFormat))
	assert.False(t, IsType(wrapped, TypeParsing))
	assert.False(t, IsType(fmt.Errorf("plain"), TypeFormat))
}

func TestWithContext(t *testing.T) {
	err := Newf(TypeInput, "toll file %s is not valid JSON", "a.json").WithContext("path", "a.json")

	assert.Equal(t, "a.json", err.Context["path"])
	assert.True(t, err.Is(TypeInput))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 3, ExitCode(Startup("cannot read alias file", fs.ErrNotExist)))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("build: %w", Input("bad toll file", nil))))
	assert.Equal(t, 2, ExitCode(New(TypeConfig, "invalid configuration")))
	assert.Equal(t, 1, ExitCode(IO("cannot write out.json", fs.ErrPermission)))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("plain")))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, TypeParsing, TypeOf(Parsing("bad year", nil)))
	assert.Equal(t, Type(""), TypeOf(fmt.Errorf("plain")))
}
