package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/unclebandit/outreach-scheduler/internal/model"
)

// ProspectRepositoryInterface defines methods used by service
type ProspectRepositoryInterface interface {
	LoadCandidateProspects(ctx context.Context, userID string, statuses []string) ([]model.Prospect, error)
}

type ProspectRepository struct {
	DB *sql.DB
}

// LoadCandidateProspects lists prospects in any of statuses that have no
// live scheduled send yet. An empty filter matches every status.
func (r *ProspectRepository) LoadCandidateProspects(ctx context.Context, userID string, statuses []string) ([]model.Prospect, error) {
	query := `
        SELECT p.id, p.name, p.avatar_url, p.status, p.profile_url, p.job_title, p.company
        FROM prospects p
        WHERE p.user_id = $1
          AND (cardinality($2::text[]) = 0 OR p.status = ANY($2))
          AND NOT EXISTS (
              SELECT 1 FROM scheduled_sends s
              WHERE s.prospect_id = p.id AND s.status <> 'archived'
          )
        ORDER BY p.name
    `
	if statuses == nil {
		statuses = []string{}
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prospects := []model.Prospect{}
	for rows.Next() {
		var p model.Prospect
		var jobTitle, company sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.AvatarURL, &p.Status, &p.ProfileURL, &jobTitle, &company); err != nil {
			return nil, err
		}
		if jobTitle.Valid {
			p.JobTitle = &jobTitle.String
		}
		if company.Valid {
			p.Company = &company.String
		}
		prospects = append(prospects, p)
	}
	return prospects, rows.Err()
}

var _ ProspectRepositoryInterface = (*ProspectRepository)(nil)
