package model

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Problem is an immutable challenge definition loaded from the catalog at
// startup. DriverCode holds the per-language harness appended after the user's
// code; a language without a driver entry is unsupported for this problem.
type Problem struct {
	ID          int                  `json:"id"`
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	Difficulty  ProblemDifficulty    `json:"difficulty"`
	Description string               `json:"description"`
	Points      int                  `json:"points"`
	Examples    []Example            `json:"examples"`
	Constraints []string             `json:"constraints"`
	StarterCode map[Language]string  `json:"starter_code"`
	DriverCode  map[Language]string  `json:"-"`
	TestCases   ProblemTestCases     `json:"-"`
}

type ProblemTestCases struct {
	Public []TestCase
	Hidden []TestCase
}

type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// SupportsLanguage reports whether the problem carries a driver harness for lang.
func (p *Problem) SupportsLanguage(lang Language) bool {
	_, ok := p.DriverCode[lang]
	return ok
}

// SupportedLanguages lists the languages this problem can be graded in,
// in the platform's canonical language order.
func (p *Problem) SupportedLanguages() []Language {
	var out []Language
	for _, l := range SupportedLanguages() {
		if p.SupportsLanguage(l) {
			out = append(out, l)
		}
	}
	return out
}
