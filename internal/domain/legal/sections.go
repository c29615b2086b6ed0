package legal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
)

// SectionService provides read access to IPC section rows and exposes them
// as section-corpus views.
type SectionService struct {
	db *sql.DB
}

// NewSectionService creates a SectionService instance.
func NewSectionService(db *sql.DB) *SectionService {
	return &SectionService{db: db}
}

// List retrieves all sections ordered by section number.
func (s *SectionService) List(ctx context.Context) ([]*Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section_number, section_title, description, punishment, example_use_cases
		FROM ipc_section
		ORDER BY section_number`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []*Section
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.SectionNumber, &sec.SectionTitle, &sec.Description, &sec.Punishment, &sec.ExampleUseCases); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, &sec)
	}
	return sections, rows.Err()
}

// Get retrieves a single section by number.
func (s *SectionService) Get(ctx context.Context, number string) (*Section, error) {
	var sec Section
	err := s.db.QueryRowContext(ctx, `
		SELECT section_number, section_title, description, punishment, example_use_cases
		FROM ipc_section
		WHERE section_number = ?`, number).
		Scan(&sec.SectionNumber, &sec.SectionTitle, &sec.Description, &sec.Punishment, &sec.ExampleUseCases)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

// CorpusItems renders every section as three corpus views emphasizing
// different field combinations (title+description, punishment+use cases,
// use cases alone). All three share the section number as id, so the ranker
// collapses them to one suggestion.
func (s *SectionService) CorpusItems(ctx context.Context) ([]retrieval.CorpusItem, error) {
	sections, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]retrieval.CorpusItem, 0, len(sections)*3)
	for _, sec := range sections {
		fields := map[string]string{
			"section_title": sec.SectionTitle,
			"description":   sec.Description,
			"punishment":    sec.Punishment,
		}
		views := []string{
			fmt.Sprintf("IPC Section %s: %s. Description: %s", sec.SectionNumber, sec.SectionTitle, sec.Description),
			fmt.Sprintf("Punishment: %s. Use cases: %s", sec.Punishment, sec.ExampleUseCases),
			fmt.Sprintf("Legal section %s applies to %s", sec.SectionNumber, sec.ExampleUseCases),
		}
		for _, text := range views {
			items = append(items, retrieval.CorpusItem{
				ID:     sec.SectionNumber,
				Kind:   "section",
				Title:  fmt.Sprintf("Section %s - %s", sec.SectionNumber, sec.SectionTitle),
				Text:   text,
				Fields: fields,
			})
		}
	}
	return items, nil
}
