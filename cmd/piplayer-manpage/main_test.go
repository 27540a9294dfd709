package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, generate(&out))

	page := out.String()
	assert.Contains(t, page, ".TH")
	assert.Contains(t, page, "PIPLAYER")
	assert.Contains(t, page, ".SH NAME")
	assert.Contains(t, page, "project")
}
