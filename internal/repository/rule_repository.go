package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadplan/timetable-api/internal/models"
)

// RuleRepository provides access to constraint rules.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListActiveRules returns the active rules in force for a period: global
// rules plus those scoped to the period.
func (r *RuleRepository) ListActiveRules(ctx context.Context, periodID string) ([]models.ConstraintRule, error) {
	const query = `
		SELECT id, code, applies_to, entity_id_1, entity_id_2, param, active, period_id, created_at
		FROM constraint_rules
		WHERE active = TRUE AND (period_id IS NULL OR period_id = $1)
		ORDER BY created_at ASC, id ASC`
	var rules []models.ConstraintRule
	if err := r.db.SelectContext(ctx, &rules, query, periodID); err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	return rules, nil
}
