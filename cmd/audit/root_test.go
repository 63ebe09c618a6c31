package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-fiscal/pkg/jwt"
)

func TestReportError_LogConComponente(t *testing.T) {
	var logs, out bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	reportError(&out, errors.New("libro ilegible"))

	assert.Equal(t, "Error: libro ilegible\n", out.String())
	assert.Contains(t, logs.String(), `"component":"cli"`)
	assert.Contains(t, logs.String(), `"error":"libro ilegible"`)
}

func TestTokenCmd_GeneraTokenVerificable(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-cli")
	t.Setenv("LOG_LEVEL", "disabled")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--sub", "contador@empresa.co", "--role", jwt.RoleAdmin})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	subject, role, err := jwt.Parse("clave-cli", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "contador@empresa.co", subject)
	assert.Equal(t, jwt.RoleAdmin, role)
}
