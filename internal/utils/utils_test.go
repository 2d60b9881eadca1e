package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPrefix(t *testing.T) {
	assert.True(t, MatchesPrefix("/imoveis", "/imoveis"))
	assert.True(t, MatchesPrefix("/imoveis/editar/3", "/imoveis"))
	assert.True(t, MatchesPrefix("/imoveis/", "/imoveis/"))
	assert.False(t, MatchesPrefix("/imoveisx", "/imoveis"))
	assert.False(t, MatchesPrefix("/", "/imoveis"))
	assert.False(t, MatchesPrefix("/anything", ""))
}

func TestSliceHasPrefixMatch(t *testing.T) {
	prefixes := []string{"/usuarios", "/bairros"}
	assert.True(t, SliceHasPrefixMatch(prefixes, "/usuarios/5"))
	assert.True(t, SliceHasPrefixMatch(prefixes, "/bairros"))
	assert.False(t, SliceHasPrefixMatch(prefixes, "/login"))
	assert.False(t, SliceHasPrefixMatch(nil, "/usuarios"))
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "/", CleanPath(""))
	assert.Equal(t, "/imoveis", CleanPath("imoveis"))
	assert.Equal(t, "/imoveis", CleanPath("/login/../imoveis"))
	assert.Equal(t, "/usuarios/5", CleanPath("//usuarios//5/"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Jardim Paulista", "paulista"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Centro", "norte"))
}
