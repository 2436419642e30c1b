package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"codecrux/internal/domain/model"

	"github.com/gosimple/slug"
)

//go:embed problems/*.json
var problemFS embed.FS

// Catalog is the immutable set of challenge definitions, loaded once at
// startup. Malformed definitions are a fatal configuration error, never a
// runtime one.
type Catalog struct {
	problems []model.Problem
	byID     map[int]*model.Problem
}

// problemFile is the on-disk shape of one problem definition.
type problemFile struct {
	ID          int                        `json:"id"`
	Title       string                     `json:"title"`
	Difficulty  model.ProblemDifficulty    `json:"difficulty"`
	Description string                     `json:"description"`
	Constraints []string                   `json:"constraints"`
	Examples    []model.Example            `json:"examples"`
	StarterCode map[string]string          `json:"starter_code"`
	DriverCode  map[string]string          `json:"driver_code"`
	TestCases   struct {
		Public []model.TestCase `json:"public"`
		Hidden []model.TestCase `json:"hidden"`
	} `json:"test_cases"`
}

// Load parses every embedded problem definition and validates the catalog
// invariants. points maps difficulty to the award amount recorded on each
// problem.
func Load(points map[model.ProblemDifficulty]int) (*Catalog, error) {
	entries, err := fs.Glob(problemFS, "problems/*.json")
	if err != nil {
		return nil, fmt.Errorf("globbing problem definitions: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no problem definitions embedded")
	}

	c := &Catalog{byID: make(map[int]*model.Problem)}
	for _, name := range entries {
		raw, err := problemFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var pf problemFile
		if err := json.Unmarshal(raw, &pf); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		problem, err := pf.toModel(points)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, dup := c.byID[problem.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate problem id %d", name, problem.ID)
		}
		c.problems = append(c.problems, problem)
	}

	sort.Slice(c.problems, func(i, j int) bool { return c.problems[i].ID < c.problems[j].ID })
	for i := range c.problems {
		c.byID[c.problems[i].ID] = &c.problems[i]
	}
	return c, nil
}

func (pf *problemFile) toModel(points map[model.ProblemDifficulty]int) (model.Problem, error) {
	if pf.ID <= 0 {
		return model.Problem{}, fmt.Errorf("problem id must be positive, got %d", pf.ID)
	}
	if pf.Title == "" {
		return model.Problem{}, fmt.Errorf("problem %d has no title", pf.ID)
	}
	switch pf.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return model.Problem{}, fmt.Errorf("problem %d has invalid difficulty %q", pf.ID, pf.Difficulty)
	}
	if len(pf.TestCases.Public) == 0 {
		return model.Problem{}, fmt.Errorf("problem %d has no public test cases", pf.ID)
	}
	if len(pf.DriverCode) == 0 {
		return model.Problem{}, fmt.Errorf("problem %d has no driver code for any language", pf.ID)
	}

	starter, err := languageMap(pf.ID, "starter_code", pf.StarterCode)
	if err != nil {
		return model.Problem{}, err
	}
	driver, err := languageMap(pf.ID, "driver_code", pf.DriverCode)
	if err != nil {
		return model.Problem{}, err
	}
	for lang := range driver {
		if _, ok := starter[lang]; !ok {
			return model.Problem{}, fmt.Errorf("problem %d: driver for %s without starter code", pf.ID, lang)
		}
	}

	return model.Problem{
		ID:          pf.ID,
		Title:       pf.Title,
		Slug:        slug.Make(pf.Title),
		Difficulty:  pf.Difficulty,
		Description: pf.Description,
		Points:      points[pf.Difficulty],
		Examples:    pf.Examples,
		Constraints: pf.Constraints,
		StarterCode: starter,
		DriverCode:  driver,
		TestCases: model.ProblemTestCases{
			Public: pf.TestCases.Public,
			Hidden: pf.TestCases.Hidden,
		},
	}, nil
}

func languageMap(problemID int, field string, in map[string]string) (map[model.Language]string, error) {
	out := make(map[model.Language]string, len(in))
	for key, code := range in {
		lang, err := model.ParseLanguage(key)
		if err != nil {
			return nil, fmt.Errorf("problem %d: %s: %w", problemID, field, err)
		}
		if code == "" {
			return nil, fmt.Errorf("problem %d: %s for %s is empty", problemID, field, lang)
		}
		out[lang] = code
	}
	return out, nil
}

// All returns the problems in catalog order (ascending id).
func (c *Catalog) All() []model.Problem {
	out := make([]model.Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

// ByID returns the problem with the given id, if present.
func (c *Catalog) ByID(id int) (*model.Problem, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Size returns the number of problems in the catalog.
func (c *Catalog) Size() int {
	return len(c.problems)
}
