package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudevolvers/catalog/internal/pkg/auth"
)

func TestRunHashesFlagKey(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-key", "correct-horse"}, strings.NewReader(""), &out))

	hash := strings.TrimSpace(out.String())
	assert.True(t, auth.CheckPassword(hash, "correct-horse"))
}

func TestRunReadsStdin(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader("correct-horse\nignored\n"), &out))

	assert.True(t, auth.CheckPassword(strings.TrimSpace(out.String()), "correct-horse"))
}

func TestRunRejectsEmptyKey(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, strings.NewReader("\n"), &out))
	assert.Error(t, run([]string{"-nope"}, strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}
