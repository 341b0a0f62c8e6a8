package services

import (
	"context"
	"fmt"

	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
)

// GrantService is the caller-facing API. It shapes the coordinator's single
// emission into a list, a boolean or a combined grant, and answers status
// questions straight from the host.
type GrantService struct {
	coordinator *Coordinator
	oracle      ports.PermissionOracle
	probe       ports.RationaleProbe
	platform    ports.PlatformInfo
}

// NewGrantService creates a grant service.
func NewGrantService(
	coordinator *Coordinator,
	oracle ports.PermissionOracle,
	probe ports.RationaleProbe,
	platform ports.PlatformInfo,
) *GrantService {
	return &GrantService{
		coordinator: coordinator,
		oracle:      oracle,
		probe:       probe,
		platform:    platform,
	}
}

// Coordinator returns the underlying coordinator.
func (s *GrantService) Coordinator() *Coordinator {
	return s.coordinator
}

// RequestEach returns one Grant per key, in the order requested.
func (s *GrantService) RequestEach(ctx context.Context, keys ...string) ([]grants.Grant, error) {
	ticket, err := s.coordinator.Submit(ctx, keys...)
	if err != nil {
		return nil, err
	}
	return ticket.Wait(ctx)
}

// Request reports whether every key is authorized.
func (s *GrantService) Request(ctx context.Context, keys ...string) (bool, error) {
	list, err := s.RequestEach(ctx, keys...)
	if err != nil {
		return false, err
	}
	return grants.AllAuthorized(list), nil
}

// RequestEachCombined returns a single Grant merged from every key.
func (s *GrantService) RequestEachCombined(ctx context.Context, keys ...string) (grants.Grant, error) {
	list, err := s.RequestEach(ctx, keys...)
	if err != nil {
		return grants.Grant{}, err
	}
	return grants.Combine(list), nil
}

// IsAuthorized reports whether key is already granted.
// Always true on platforms without runtime grants.
func (s *GrantService) IsAuthorized(key string) (bool, error) {
	if !s.platform.SupportsRuntimeGrants() {
		return true, nil
	}
	status, err := s.oracle.Status(key)
	if err != nil {
		return false, err
	}
	return status.Granted, nil
}

// IsRevokedByPolicy reports whether key has been revoked by a policy.
// Always false on platforms without runtime grants.
func (s *GrantService) IsRevokedByPolicy(key string) (bool, error) {
	if !s.platform.SupportsRuntimeGrants() {
		return false, nil
	}
	status, err := s.oracle.Status(key)
	if err != nil {
		return false, err
	}
	return status.RevokedByPolicy, nil
}

// ShouldExplainRationale reports whether the caller should explain why the
// keys are needed: true only if every key that is not yet authorized can
// still be explained. Always false on platforms without runtime grants.
func (s *GrantService) ShouldExplainRationale(keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, apperrors.NewInvalidArgumentError("keys", "at least one grant key is required", nil)
	}
	if !s.platform.SupportsRuntimeGrants() {
		return false, nil
	}

	for _, key := range keys {
		status, err := s.oracle.Status(key)
		if err != nil {
			return false, err
		}
		if status.Granted {
			continue
		}
		can, err := s.probe.CanExplainRationale(key)
		if err != nil {
			return false, fmt.Errorf("rationale probe for %s: %w", key, err)
		}
		if !can {
			return false, nil
		}
	}
	return true, nil
}
