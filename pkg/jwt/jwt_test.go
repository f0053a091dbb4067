package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obra-stock-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", jwt.RoleSupervisor, "obra-stock-api", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, jwt.RoleSupervisor, role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", jwt.RoleAdmin, "obra-stock-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", jwt.RoleAdmin, "obra-stock-api", -5)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", jwt.RoleAdmin, "x", 5)
	assert.Error(t, err)

	_, err = jwt.Generate(secret, "", jwt.RoleAdmin, "x", 5)
	assert.Error(t, err)
}
