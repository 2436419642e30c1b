package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codecrux/internal/catalog"
	"codecrux/internal/common"
	"codecrux/internal/domain/model"
	"codecrux/internal/domain/repository"
	"codecrux/internal/sandbox"

	log "github.com/sirupsen/logrus"
)

// SandboxRunner executes one assembled program against the remote sandbox.
type SandboxRunner interface {
	Execute(ctx context.Context, req sandbox.ExecRequest) (*sandbox.ExecResponse, error)
}

// RuntimeResolver maps a language to a concrete sandbox runtime.
type RuntimeResolver interface {
	Resolve(lang model.Language) (sandbox.Runtime, error)
}

// ProgressCrediter awards points for an accepted submission.
type ProgressCrediter interface {
	TryCredit(ctx context.Context, userID string, problemID, points int) (*model.CreditOutcome, error)
}

// ExecutionService is the orchestrator for run/submit batches. It owns the
// per-subject state machine: at most one batch in flight, per-mode cooldowns
// that start when a batch finishes, strictly sequential test-case dispatch,
// and the hand-off to the progress ledger on an all-passing submission.
type ExecutionService struct {
	catalog  *catalog.Catalog
	resolver RuntimeResolver
	runner   SandboxRunner
	limiter  repository.RateLimiter
	progress ProgressCrediter

	runCooldown    time.Duration
	submitCooldown time.Duration
}

func NewExecutionService(
	cat *catalog.Catalog,
	resolver RuntimeResolver,
	runner SandboxRunner,
	limiter repository.RateLimiter,
	progress ProgressCrediter,
	runCooldown, submitCooldown time.Duration,
) *ExecutionService {
	return &ExecutionService{
		catalog:        cat,
		resolver:       resolver,
		runner:         runner,
		limiter:        limiter,
		progress:       progress,
		runCooldown:    runCooldown,
		submitCooldown: submitCooldown,
	}
}

type ExecuteRequest struct {
	ProblemID int    `json:"problem_id" validate:"required,gt=0"`
	Language  string `json:"language" validate:"required"`
	Code      string `json:"code" validate:"required"`
	Mode      string `json:"mode" validate:"required,oneof=run submit submission"`
}

// UnsupportedLanguageError is the fail-fast configuration error raised before
// any sandbox call when a problem carries no driver harness for the language.
type UnsupportedLanguageError struct {
	Language model.Language
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("Automated testing for %s is not yet implemented for this question.", e.Language)
}

func (e *UnsupportedLanguageError) Unwrap() error {
	return common.ErrUnsupportedLanguage
}

// taggedCase is one selected test case with its visibility tag.
type taggedCase struct {
	tc     model.TestCase
	hidden bool
}

// Execute runs one batch. userID is nil for unauthenticated callers, who may
// run and submit but are never credited. subject keys the rate-limit state
// (user id, or client address for anonymous callers).
func (s *ExecutionService) Execute(ctx context.Context, userID *string, subject string, req ExecuteRequest) (*model.Verdict, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	lang, err := model.ParseLanguage(req.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadRequest, err)
	}
	mode, err := model.ParseExecutionMode(req.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadRequest, err)
	}

	problem, ok := s.catalog.ByID(req.ProblemID)
	if !ok {
		return nil, fmt.Errorf("problem %d: %w", req.ProblemID, common.ErrNotFound)
	}

	// Configuration precondition: fail fast before any rate-limit or sandbox
	// interaction when this problem cannot be graded in the chosen language.
	driver, ok := problem.DriverCode[lang]
	if !ok {
		return nil, &UnsupportedLanguageError{Language: lang}
	}

	active, err := s.limiter.CooldownActive(ctx, subject, mode)
	if err != nil {
		return nil, common.Errorf("cooldown check failed: %w", err)
	}
	if active {
		return nil, common.ErrCooldownActive
	}

	token, acquired, err := s.limiter.TryBeginBatch(ctx, subject)
	if err != nil {
		return nil, common.Errorf("batch slot acquisition failed: %w", err)
	}
	if !acquired {
		return nil, common.ErrBatchInFlight
	}
	// Slot release and cooldown bookkeeping must happen even when the caller
	// disconnects mid-batch; a canceled request must not hold the in-flight
	// slot until the lock TTL expires.
	cleanupCtx := context.WithoutCancel(ctx)
	defer s.limiter.EndBatch(cleanupCtx, subject, token)

	runtime, err := s.resolver.Resolve(lang)
	if err != nil {
		return nil, common.Errorf("runtime resolution failed: %w", err)
	}

	cases := selectCases(problem, mode)
	source := sandbox.Prelude(lang) + req.Code + driver

	// Test cases run strictly sequentially: the sandbox is a shared external
	// resource with unknown concurrency limits, and sequential dispatch keeps
	// result ordering trivially deterministic. Individual failures never abort
	// the batch.
	results := make([]model.ExecutionResult, 0, len(cases))
	allPassed := true
	for _, c := range cases {
		res := s.runCase(ctx, runtime, lang, source, c.tc)
		res.Hidden = c.hidden
		if !res.Passed {
			allPassed = false
		}
		if c.hidden {
			res = res.Redacted()
		}
		results = append(results, res)
	}

	verdict := &model.Verdict{
		ProblemID: problem.ID,
		Mode:      mode,
		Language:  lang,
		Results:   results,
		AllPassed: allPassed,
	}

	// Cooldowns rate-limit sandbox abuse and start only once the batch is
	// done, so a slow batch never eats into its own cooldown.
	cooldown := s.runCooldown
	if mode == model.ModeSubmit {
		cooldown = s.submitCooldown
	}
	if err := s.limiter.StartCooldown(cleanupCtx, subject, mode, cooldown); err != nil {
		log.Errorf("failed to start %s cooldown for %s: %v", mode, subject, err)
	}

	if mode == model.ModeSubmit && allPassed && userID != nil {
		outcome, err := s.progress.TryCredit(ctx, *userID, problem.ID, problem.Points)
		if err != nil {
			// The verdict stands; the ledger failure is reported, not retried.
			log.WithFields(log.Fields{
				"user_id":    *userID,
				"problem_id": problem.ID,
			}).Errorf("progress ledger error after accepted submission: %v", err)
		} else {
			verdict.Credit = outcome
		}
	}

	return verdict, nil
}

// selectCases returns the batch's test cases in their observable order:
// public cases first in catalog order, then (for submissions) hidden cases in
// catalog order.
func selectCases(problem *model.Problem, mode model.ExecutionMode) []taggedCase {
	cases := make([]taggedCase, 0, len(problem.TestCases.Public)+len(problem.TestCases.Hidden))
	for _, tc := range problem.TestCases.Public {
		cases = append(cases, taggedCase{tc: tc})
	}
	if mode == model.ModeSubmit {
		for _, tc := range problem.TestCases.Hidden {
			cases = append(cases, taggedCase{tc: tc, hidden: true})
		}
	}
	return cases
}

// runCase submits one test case to the sandbox and classifies the outcome.
// Every failure is folded into the result status; nothing escapes as an error.
func (s *ExecutionService) runCase(ctx context.Context, runtime sandbox.Runtime, lang model.Language, source string, tc model.TestCase) model.ExecutionResult {
	result := model.ExecutionResult{
		Input:    tc.Input,
		Expected: tc.ExpectedOutput,
	}

	resp, err := s.runner.Execute(ctx, sandbox.ExecRequest{
		Language: runtime.PistonID,
		Version:  runtime.Version,
		Files: []sandbox.File{
			{Name: sandbox.SourceFileName(lang), Content: source},
		},
		Stdin: tc.Input,
	})
	if err != nil {
		if errors.Is(err, sandbox.ErrAPI) {
			result.Status = model.StatusAPIError
		} else {
			result.Status = model.StatusNetworkError
		}
		result.Error = err.Error()
		return result
	}
	if resp == nil || resp.Run == nil {
		result.Status = model.StatusAPIError
		result.Error = "sandbox returned no run result"
		return result
	}

	if resp.Compile != nil && resp.Compile.Code != 0 {
		result.Status = model.StatusRuntimeError
		result.Error = resp.Compile.Stderr
		return result
	}
	if resp.Run.Stderr != "" {
		result.Status = model.StatusRuntimeError
		result.Error = resp.Run.Stderr
		return result
	}

	result.Actual = trimTrailing(resp.Run.Stdout)
	if result.Actual == trimTrailing(tc.ExpectedOutput) {
		result.Status = model.StatusAccepted
		result.Passed = true
	} else {
		result.Status = model.StatusWrongAnswer
	}
	return result
}

// Output equality is exact string match after trimming trailing whitespace;
// no numeric or semantic tolerance.
func trimTrailing(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}
