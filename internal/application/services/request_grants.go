package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/reglet-dev/flowgrant/internal/application/dto"
	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"golang.org/x/sync/errgroup"
)

// RequestGrantsUseCase serves a grant request from one or more callers and
// reports what each of them received.
type RequestGrantsUseCase struct {
	grants  *GrantService
	batches repositories.BatchRepository
	logger  *slog.Logger
}

// NewRequestGrantsUseCase creates a new request grants use case.
// batches may be nil, in which case the response carries no batch diagnostics.
func NewRequestGrantsUseCase(grantService *GrantService, batches repositories.BatchRepository, logger *slog.Logger) *RequestGrantsUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &RequestGrantsUseCase{
		grants:  grantService,
		batches: batches,
		logger:  logger,
	}
}

// Execute runs every caller concurrently and waits for all of them.
func (uc *RequestGrantsUseCase) Execute(ctx context.Context, req dto.GrantRequest) (*dto.GrantResponse, error) {
	startTime := time.Now()

	if len(req.Keys) == 0 {
		return nil, apperrors.NewInvalidArgumentError("keys", "at least one grant key is required", nil)
	}
	if !slices.Contains(dto.ResultModes(), req.Mode) {
		return nil, apperrors.NewInvalidArgumentError("mode",
			fmt.Sprintf("unknown result mode %q (valid: each, all, combined)", req.Mode), nil)
	}
	callers := req.Callers
	if callers < 1 {
		callers = 1
	}

	seen := uc.batchCount(ctx)

	uc.logger.Info("requesting grants", "keys", req.Keys, "mode", req.Mode, "callers", callers)

	results := make([]dto.CallerResult, callers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range callers {
		g.Go(func() error {
			result, err := uc.requestOne(gctx, req.Mode, req.Keys)
			if err != nil {
				return fmt.Errorf("caller %d: %w", i+1, err)
			}
			result.Caller = i + 1
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	response := &dto.GrantResponse{
		Mode:    req.Mode,
		Callers: results,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
	}
	response.Diagnostics = uc.diagnostics(ctx, seen)

	return response, nil
}

func (uc *RequestGrantsUseCase) requestOne(ctx context.Context, mode dto.ResultMode, keys []string) (dto.CallerResult, error) {
	switch mode {
	case dto.ResultModeAll:
		ok, err := uc.grants.Request(ctx, keys...)
		if err != nil {
			return dto.CallerResult{}, err
		}
		return dto.CallerResult{Authorized: ok}, nil

	case dto.ResultModeCombined:
		combined, err := uc.grants.RequestEachCombined(ctx, keys...)
		if err != nil {
			return dto.CallerResult{}, err
		}
		return dto.CallerResult{
			Grants:     []dto.GrantView{toView(combined)},
			Authorized: combined.Authorized,
		}, nil

	default:
		list, err := uc.grants.RequestEach(ctx, keys...)
		if err != nil {
			return dto.CallerResult{}, err
		}
		views := make([]dto.GrantView, len(list))
		for i, g := range list {
			views[i] = toView(g)
		}
		return dto.CallerResult{
			Grants:     views,
			Authorized: grants.AllAuthorized(list),
		}, nil
	}
}

// Status reports what is known about each key without prompting.
func (uc *RequestGrantsUseCase) Status(keys ...string) ([]dto.StatusResponse, error) {
	if len(keys) == 0 {
		return nil, apperrors.NewInvalidArgumentError("keys", "at least one grant key is required", nil)
	}

	out := make([]dto.StatusResponse, 0, len(keys))
	for _, key := range keys {
		authorized, err := uc.grants.IsAuthorized(key)
		if err != nil {
			return nil, err
		}
		revoked, err := uc.grants.IsRevokedByPolicy(key)
		if err != nil {
			return nil, err
		}
		explain := false
		if !authorized {
			explain, err = uc.grants.ShouldExplainRationale(key)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, dto.StatusResponse{
			Key:                 key,
			Authorized:          authorized,
			RevokedByPolicy:     revoked,
			CanExplainRationale: explain,
		})
	}
	return out, nil
}

func (uc *RequestGrantsUseCase) batchCount(ctx context.Context) int {
	if uc.batches == nil {
		return 0
	}
	records, err := uc.batches.List(ctx)
	if err != nil {
		return 0
	}
	return len(records)
}

// diagnostics summarizes the batches issued after the first seen records.
func (uc *RequestGrantsUseCase) diagnostics(ctx context.Context, seen int) dto.Diagnostics {
	d := dto.Diagnostics{Batches: []dto.BatchSummary{}}
	if uc.batches == nil {
		return d
	}

	records, err := uc.batches.List(ctx)
	if err != nil {
		d.Warnings = append(d.Warnings, fmt.Sprintf("listing prompt batches: %v", err))
		return d
	}
	for _, rec := range records[min(seen, len(records)):] {
		d.Batches = append(d.Batches, dto.BatchSummary{
			ID:       rec.Batch.ID.String(),
			Keys:     rec.Batch.Keys,
			Resolved: rec.Resolved,
		})
	}
	return d
}

func toView(g grants.Grant) dto.GrantView {
	return dto.GrantView{
		Key:                 g.Key,
		Authorized:          g.Authorized,
		CanExplainRationale: g.CanExplainRationale,
	}
}
