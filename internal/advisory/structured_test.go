package advisory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestExtractJSON_Plain(t *testing.T) {
	got, err := ExtractJSON[sample](`{"name":"a","score":3}`, nil)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "a", Score: 3}, got)
}

func TestExtractJSON_CodeFences(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"name\":\"fenced\",\"score\":1}\n```\nLet me know if you need more."
	got, err := ExtractJSON[sample](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "fenced", got.Name)
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw := `The result is {"name":"inline","score":2} as requested.`
	got, err := ExtractJSON[sample](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "inline", got.Name)
}

func TestExtractJSON_NestedBracesInStrings(t *testing.T) {
	raw := `{"name":"has {braces} and \"quotes\"","score":7} trailing`
	got, err := ExtractJSON[sample](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `has {braces} and "quotes"`, got.Name)
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON[sample]("no structured data here", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidatorRejects(t *testing.T) {
	reject := func(s sample) error {
		if s.Score < 0 {
			return errors.New("negative score")
		}
		return nil
	}
	_, err := ExtractJSON[sample](`{"name":"x","score":-1}`, reject)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	got, err := ExtractJSON[sample](`{"name":"x","score":1}`, reject)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
}
