package legal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
)

// KnowledgeService composes the mixed knowledge corpus from every knowledge
// table: sections, acts, legal terms, FAQs and procedures. One view per row;
// the view text is the title and content joined, the content alone is carried
// as a display field for answer rendering.
type KnowledgeService struct {
	db *sql.DB
}

// NewKnowledgeService creates a KnowledgeService instance.
func NewKnowledgeService(db *sql.DB) *KnowledgeService {
	return &KnowledgeService{db: db}
}

// CorpusItems renders all knowledge rows as corpus views.
func (s *KnowledgeService) CorpusItems(ctx context.Context) ([]retrieval.CorpusItem, error) {
	var items []retrieval.CorpusItem
	for _, build := range []func(context.Context) ([]retrieval.CorpusItem, error){
		s.sectionViews,
		s.actViews,
		s.termViews,
		s.faqViews,
		s.procedureViews,
	} {
		views, err := build(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, views...)
	}
	return items, nil
}

func knowledgeItem(id, kind, title, content string) retrieval.CorpusItem {
	return retrieval.CorpusItem{
		ID:     id,
		Kind:   kind,
		Title:  title,
		Text:   title + ". " + content,
		Fields: map[string]string{"content": content},
	}
}

func (s *KnowledgeService) sectionViews(ctx context.Context) ([]retrieval.CorpusItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section_number, section_title, description, punishment
		FROM ipc_section
		ORDER BY section_number`)
	if err != nil {
		return nil, fmt.Errorf("knowledge sections: %w", err)
	}
	defer rows.Close()

	var items []retrieval.CorpusItem
	for rows.Next() {
		var number, title, description, punishment string
		if err := rows.Scan(&number, &title, &description, &punishment); err != nil {
			return nil, fmt.Errorf("scan knowledge section: %w", err)
		}
		items = append(items, knowledgeItem(
			number,
			"section",
			fmt.Sprintf("Section %s - %s", number, title),
			fmt.Sprintf("%s. Punishment: %s", description, punishment),
		))
	}
	return items, rows.Err()
}

func (s *KnowledgeService) actViews(ctx context.Context) ([]retrieval.CorpusItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, act_name, description, important_sections
		FROM act
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("knowledge acts: %w", err)
	}
	defer rows.Close()

	var items []retrieval.CorpusItem
	for rows.Next() {
		var id int64
		var name, description, sections string
		if err := rows.Scan(&id, &name, &description, &sections); err != nil {
			return nil, fmt.Errorf("scan act: %w", err)
		}
		items = append(items, knowledgeItem(
			fmt.Sprintf("act-%d", id),
			"act",
			name,
			fmt.Sprintf("%s. Important Sections: %s", description, sections),
		))
	}
	return items, rows.Err()
}

func (s *KnowledgeService) termViews(ctx context.Context) ([]retrieval.CorpusItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, term, definition, example
		FROM legal_term
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("knowledge terms: %w", err)
	}
	defer rows.Close()

	var items []retrieval.CorpusItem
	for rows.Next() {
		var id int64
		var term, definition, example string
		if err := rows.Scan(&id, &term, &definition, &example); err != nil {
			return nil, fmt.Errorf("scan legal term: %w", err)
		}
		items = append(items, knowledgeItem(
			fmt.Sprintf("term-%d", id),
			"legal_term",
			term,
			fmt.Sprintf("%s. Example: %s", definition, example),
		))
	}
	return items, rows.Err()
}

func (s *KnowledgeService) faqViews(ctx context.Context) ([]retrieval.CorpusItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer
		FROM faq
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("knowledge faqs: %w", err)
	}
	defer rows.Close()

	var items []retrieval.CorpusItem
	for rows.Next() {
		var id int64
		var question, answer string
		if err := rows.Scan(&id, &question, &answer); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		items = append(items, knowledgeItem(fmt.Sprintf("faq-%d", id), "faq", question, answer))
	}
	return items, rows.Err()
}

func (s *KnowledgeService) procedureViews(ctx context.Context) ([]retrieval.CorpusItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, process_name, description, step_by_step, tips
		FROM procedure
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("knowledge procedures: %w", err)
	}
	defer rows.Close()

	var items []retrieval.CorpusItem
	for rows.Next() {
		var id int64
		var name, description, steps, tips string
		if err := rows.Scan(&id, &name, &description, &steps, &tips); err != nil {
			return nil, fmt.Errorf("scan procedure: %w", err)
		}
		items = append(items, knowledgeItem(
			fmt.Sprintf("procedure-%d", id),
			"procedure",
			name,
			fmt.Sprintf("%s\nSteps: %s\nTips: %s", description, steps, tips),
		))
	}
	return items, rows.Err()
}
