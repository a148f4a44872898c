package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"m3u-mirror-failover/updater"
)

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, exitCode(updater.OutcomeUpdated))
	assert.Equal(t, 0, exitCode(updater.OutcomeNoOp))
	assert.Equal(t, 1, exitCode(updater.OutcomeNoLink))
	assert.Equal(t, 2, exitCode(updater.OutcomeNoServer))
}
