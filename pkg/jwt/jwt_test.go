package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate("s3cret", "emp-1", "binner", "wms-test", 5)
	require.NoError(t, err)

	emp, role, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", emp)
	assert.Equal(t, "binner", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("s3cret", "emp-1", "binner", "wms-test", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("s3cret", "emp-1", "binner", "wms-test", -1)
	require.NoError(t, err)

	_, _, err = Parse("s3cret", tok)
	assert.Error(t, err, "un token expirado debe rechazarse")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "emp-1", "admin", "wms-test", 5)
	assert.Error(t, err)
}
