package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"npi-linker/core/reconcile"
	"npi-linker/feature/match/models"

	"gorm.io/gorm"
)

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("match run not found")

const resultBatchSize = 500

// Repository persists match runs and their per-target results.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the result tables.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate match tables: %w", err)
	}
	return nil
}

// SaveRun stores run and results in one transaction.
func (r *Repository) SaveRun(ctx context.Context, run *models.MatchRun, results []models.MatchResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("insert run %s: %w", run.ID, err)
		}
		if len(results) == 0 {
			return nil
		}
		for i := range results {
			results[i].RunID = run.ID
		}
		if err := tx.CreateInBatches(results, resultBatchSize).Error; err != nil {
			return fmt.Errorf("insert results of run %s: %w", run.ID, err)
		}
		return nil
	})
}

// GetRun loads one run with its results in target order.
func (r *Repository) GetRun(ctx context.Context, id string) (*models.MatchRun, []models.MatchResult, error) {
	var run models.MatchRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrRunNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load run %s: %w", id, err)
	}

	var results []models.MatchResult
	if err := r.db.WithContext(ctx).Where("run_id = ?", id).Order("id").Find(&results).Error; err != nil {
		return nil, nil, fmt.Errorf("load results of run %s: %w", id, err)
	}
	return &run, results, nil
}

// ResultModels flattens registry results into rows for persistence.
func ResultModels(results []reconcile.Result) []models.MatchResult {
	out := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		m := models.MatchResult{
			TargetID:   r.Target.ID,
			TargetName: r.Target.Name,
			Resolved:   r.Resolution.Resolved,
			Confidence: string(r.Resolution.Confidence),
			Method:     r.Resolution.Method,
		}
		if p := r.Resolution.Profile; p != nil {
			m.NPI = p.NPI
			m.FullName = p.FullName
			m.Credential = p.Credential
			m.PracticeAddress = p.PracticeAddress
			m.PracticePhone = p.PracticePhone
			m.MailingPhone = p.MailingPhone
			m.LicenseNumbers = strings.Join(p.LicenseNumbers(), ", ")
			m.LicenseStates = strings.Join(p.LicenseStates(), ", ")
		}
		out = append(out, m)
	}
	return out
}
