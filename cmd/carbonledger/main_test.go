package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgoulet/carbonledger/internal/cli"
	"github.com/rgoulet/carbonledger/pkg/version"
)

func TestVersionAvailable(t *testing.T) {
	assert.NotEmpty(t, version.GetVersion())
}

func TestRootCommand(t *testing.T) {
	root := cli.NewRootCmd(version.GetVersion())
	assert.NotNil(t, root)
	assert.Equal(t, "carbonledger", root.Use)
}
