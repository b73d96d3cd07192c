package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate("s3cret", "user-1", jwt.RoleRegente, "farmacia", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, jwt.RoleRegente, role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("s3cret", "user-1", jwt.RoleCajero, "farmacia", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otra", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("s3cret", "user-1", jwt.RoleCajero, "farmacia", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("s3cret", token)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := jwt.Generate("", "user-1", jwt.RoleAdmin, "farmacia", 5)
	assert.Error(t, err)
}
