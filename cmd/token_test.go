package main

import (
	"aime-backend/config"
	"aime-backend/internal/model"
	"aime-backend/internal/util"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCommandIssuesValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "cli-test-secret"

	cmd := newTokenCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--user", "7", "--role", model.RoleStaff})
	require.NoError(t, cmd.Execute())

	claims, err := util.ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, model.RoleStaff, claims.Role)
}

func TestTokenCommandRejectsBadInput(t *testing.T) {
	config.AppConfig.JWTSecret = "cli-test-secret"

	for _, args := range [][]string{
		{"--role", model.RoleMember},
		{"--user", "3", "--role", "admin"},
	} {
		cmd := newTokenCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), args)
	}
}
