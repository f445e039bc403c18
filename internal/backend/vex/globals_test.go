package vex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalsLifecycle(t *testing.T) {
	assert.Equal(t, 0, SpadSize(), "capacity is 0 outside the bracket")

	require.NoError(t, InitGlobals())
	assert.Equal(t, kSpadSize, SpadSize())
	require.NoError(t, FreeGlobals())
	assert.Equal(t, 0, SpadSize())

	// The bracket can be reopened after a clean close.
	require.NoError(t, InitGlobalsSized(1024))
	assert.Equal(t, 1024, SpadSize())
	require.NoError(t, FreeGlobals())
}

func TestGlobalsDoubleInit(t *testing.T) {
	require.NoError(t, InitGlobals())
	defer FreeGlobals()
	assert.Error(t, InitGlobals())
	assert.Error(t, InitGlobalsSized(64))
}

func TestGlobalsFreeWithoutInit(t *testing.T) {
	assert.Error(t, FreeGlobals())
}

func TestGlobalsInvalidCapacity(t *testing.T) {
	assert.Error(t, InitGlobalsSized(0))
	assert.Error(t, InitGlobalsSized(-4))
}
