package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
	"github.com/tripsight/tripsight-engine/pkg/llm"
	"github.com/tripsight/tripsight-engine/pkg/prompts"
	"github.com/tripsight/tripsight-engine/pkg/repositories"
	sqlguard "github.com/tripsight/tripsight-engine/pkg/sql"
)

// AssistantService answers natural-language questions about the trip
// dataset by generating, sanitizing and executing read-only SQL.
type AssistantService interface {
	// Ask runs the full question -> SQL -> result pipeline.
	Ask(ctx context.Context, question string) (*AskResult, error)
}

// AskResult is the outcome of a successfully executed question. Empty is
// true when the query ran fine but returned zero rows; that is a normal
// outcome, not a failure.
type AskResult struct {
	SQL    string                    `json:"sql"`
	Result *repositories.QueryResult `json:"result"`
	Empty  bool                      `json:"empty"`
}

type assistantService struct {
	completions llm.CompletionClient
	tripRepo    repositories.TripRepository
	logger      *zap.Logger
}

// NewAssistantService creates an AssistantService.
func NewAssistantService(
	completions llm.CompletionClient,
	tripRepo repositories.TripRepository,
	logger *zap.Logger,
) AssistantService {
	return &assistantService{
		completions: completions,
		tripRepo:    tripRepo,
		logger:      logger.Named("assistant"),
	}
}

func (s *assistantService) Ask(ctx context.Context, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &apperrors.RejectionError{
			Category: apperrors.RejectionMalformed,
			Message:  "Please ask a question about the trip data.",
		}
	}

	// Cheap first gate on the question itself; the generated SQL is
	// still sanitized below regardless.
	if err := sqlguard.ScreenQuestion(question); err != nil {
		return nil, err
	}

	rawSQL, err := s.generate(ctx, question)
	if err != nil {
		return nil, err
	}

	safeSQL, err := sqlguard.Sanitize(rawSQL)
	if err != nil {
		s.logger.Info("Candidate SQL rejected",
			zap.String("question", question),
			zap.Error(err))
		return nil, err
	}

	// Sanitize is keyword-level; this pass catches piggybacked
	// statements hidden behind semicolons.
	vr := sqlguard.ValidateAndNormalize(safeSQL)
	if vr.Error != nil {
		return nil, &apperrors.RejectionError{
			Category: apperrors.RejectionMalformed,
			Message:  vr.Error.Error(),
		}
	}
	safeSQL = vr.NormalizedSQL

	result, err := s.tripRepo.ExecuteReadOnly(ctx, safeSQL)
	if err != nil {
		return nil, apperrors.NewDataAccessError("postgres", "execute generated query", err)
	}

	s.logger.Info("Question answered",
		zap.String("sql", safeSQL),
		zap.Int("rows", result.RowCount()))

	return &AskResult{
		SQL:    safeSQL,
		Result: result,
		Empty:  result.RowCount() == 0,
	}, nil
}

// generate builds the schema-constrained prompt and invokes the
// completion model with deterministic sampling. The raw output is
// returned trimmed and otherwise verbatim; validation is strictly the
// sanitizer's job.
func (s *assistantService) generate(ctx context.Context, question string) (string, error) {
	raw, err := s.completions.Complete(ctx, prompts.Text2SQLSystemPrompt(), question, 0)
	if err != nil {
		return "", &apperrors.GenerationError{Err: err}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &apperrors.GenerationError{Err: fmt.Errorf("completion model returned empty output")}
	}
	return raw, nil
}
