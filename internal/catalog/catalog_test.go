package catalog

import (
	"testing"

	"codecrux/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPoints = map[model.ProblemDifficulty]int{
	model.DifficultyEasy:   100,
	model.DifficultyMedium: 200,
	model.DifficultyHard:   300,
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	cat, err := Load(testPoints)
	require.NoError(t, err)
	require.NotZero(t, cat.Size())

	problems := cat.All()
	for i := 1; i < len(problems); i++ {
		assert.Less(t, problems[i-1].ID, problems[i].ID, "catalog order must be ascending by id")
	}

	for _, p := range problems {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Slug)
		assert.Equal(t, testPoints[p.Difficulty], p.Points)
		assert.NotEmpty(t, p.TestCases.Public, "problem %d must have public test cases", p.ID)
		assert.NotEmpty(t, p.DriverCode, "problem %d must be gradeable in some language", p.ID)
		for lang := range p.DriverCode {
			assert.Contains(t, p.StarterCode, lang,
				"problem %d: driver for %s implies starter code", p.ID, lang)
		}
	}
}

func TestByID(t *testing.T) {
	cat, err := Load(testPoints)
	require.NoError(t, err)

	p, ok := cat.ByID(1)
	require.True(t, ok)
	assert.Equal(t, "Two Sum", p.Title)
	assert.Equal(t, "two-sum", p.Slug)
	assert.Equal(t, model.DifficultyEasy, p.Difficulty)
	assert.True(t, p.SupportsLanguage(model.LangPython))

	_, ok = cat.ByID(9999)
	assert.False(t, ok)
}

func validProblemFile() problemFile {
	pf := problemFile{
		ID:          7,
		Title:       "Sample",
		Difficulty:  model.DifficultyEasy,
		Description: "sample",
		StarterCode: map[string]string{"python": "class Solution: pass\n"},
		DriverCode:  map[string]string{"python": "print('x')\n"},
	}
	pf.TestCases.Public = []model.TestCase{{Input: "1", ExpectedOutput: "1"}}
	return pf
}

func TestProblemValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		pf := validProblemFile()
		p, err := pf.toModel(testPoints)
		require.NoError(t, err)
		assert.Equal(t, 100, p.Points)
		assert.Equal(t, "sample", p.Slug)
	})

	t.Run("non-positive id", func(t *testing.T) {
		pf := validProblemFile()
		pf.ID = 0
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		pf := validProblemFile()
		pf.Title = ""
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})

	t.Run("invalid difficulty", func(t *testing.T) {
		pf := validProblemFile()
		pf.Difficulty = "Impossible"
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})

	t.Run("no public test cases", func(t *testing.T) {
		pf := validProblemFile()
		pf.TestCases.Public = nil
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})

	t.Run("no driver code", func(t *testing.T) {
		pf := validProblemFile()
		pf.DriverCode = nil
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})

	t.Run("driver without starter", func(t *testing.T) {
		pf := validProblemFile()
		pf.DriverCode["javascript"] = "console.log('x')\n"
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})

	t.Run("unknown language key", func(t *testing.T) {
		pf := validProblemFile()
		pf.StarterCode["cobol"] = "x"
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})

	t.Run("empty driver body", func(t *testing.T) {
		pf := validProblemFile()
		pf.DriverCode["python"] = ""
		_, err := pf.toModel(testPoints)
		assert.Error(t, err)
	})
}
