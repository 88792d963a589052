package repositories

import (
	"context"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// AssessmentRequest describes one version transition to assess.
type AssessmentRequest struct {
	Ecosystem      entities.Ecosystem
	Name           string
	CurrentVersion string
	NewVersion     string
}

// SecurityOracleRepository is the vulnerability oracle. It never returns an
// error: any failure is reported as an unsafe verdict.
type SecurityOracleRepository interface {
	AssessTransition(ctx context.Context, request AssessmentRequest) entities.SecurityVerdict
}
