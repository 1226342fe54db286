package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlainJSON(t *testing.T) {
	result := Parse(`{"description": "uma sala de estar", "objects": []}`)

	assert.True(t, result.Structured)
	assert.Equal(t, "uma sala de estar", result.String("description"))
	assert.Equal(t, "uma sala de estar", result.Description())
}

func TestParseJSONFence(t *testing.T) {
	raw := "Claro, aqui está a análise:\n```json\n{\"description\": \"um parque\"}\n```\nEspero que ajude."
	result := Parse(raw)

	assert.True(t, result.Structured)
	assert.Equal(t, "um parque", result.String("description"))
}

func TestParseGenericFence(t *testing.T) {
	raw := "```\n{\"description\": \"uma rua\"}\n```"
	result := Parse(raw)

	assert.True(t, result.Structured)
	assert.Equal(t, "uma rua", result.String("description"))
}

func TestParseUnstructuredFallback(t *testing.T) {
	raw := "A imagem mostra uma praça com árvores e bancos."
	result := Parse(raw)

	assert.False(t, result.Structured)
	assert.Equal(t, raw, result.Raw)
	assert.Equal(t, raw, result.Description())
	assert.Empty(t, result.String("description"))
}

func TestParseUnterminatedFence(t *testing.T) {
	raw := "```json\n{\"description\": \"sem fechamento\"}"
	result := Parse(raw)

	assert.True(t, result.Structured)
	assert.Equal(t, "sem fechamento", result.String("description"))
}

func TestParseNonObjectJSON(t *testing.T) {
	result := Parse(`["apenas", "uma", "lista"]`)
	assert.False(t, result.Structured)
}

func TestDescriptionFallsBackToRaw(t *testing.T) {
	result := Parse(`{"objects": []}`)
	assert.True(t, result.Structured)
	assert.Equal(t, `{"objects": []}`, result.Description())
}
