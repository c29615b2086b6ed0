package legal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
	"github.com/adityabhaskar/nyaya/internal/infra/eventbus"
	"github.com/adityabhaskar/nyaya/pkg/uuid"
)

// FIRService provides FIR record operations and exposes records as
// case-corpus views.
type FIRService struct {
	db  *sql.DB
	bus eventbus.EventBus
}

// NewFIRService creates an FIRService. bus may be nil when ingest
// notifications are not needed (bulk tooling, tests).
func NewFIRService(db *sql.DB, bus eventbus.EventBus) *FIRService {
	return &FIRService{db: db, bus: bus}
}

// Create files a new FIR record and publishes its corpus view on the bus so
// the retrieval index picks it up in the background.
func (s *FIRService) Create(ctx context.Context, input CreateFIRInput) (*FIRRecord, error) {
	if strings.TrimSpace(input.IncidentDesc) == "" {
		return nil, fmt.Errorf("create fir: incident description is required")
	}

	rec := &FIRRecord{
		ID:                 uuid.NewV7().String(),
		FIRNumber:          input.FIRNumber,
		IncidentType:       input.IncidentType,
		IncidentDesc:       input.IncidentDesc,
		IncidentLocation:   input.IncidentLocation,
		AccusedDescription: input.AccusedDescription,
		ModusOperandi:      input.ModusOperandi,
		Status:             input.Status,
		CreatedAt:          time.Now().UTC(),
	}
	if rec.FIRNumber == "" {
		rec.FIRNumber = fmt.Sprintf("FIR-%s", rec.CreatedAt.Format("20060102-150405"))
	}
	if rec.Status == "" {
		rec.Status = "registered"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fir_record (id, fir_number, incident_type, incident_description,
			incident_location, accused_description, modus_operandi, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FIRNumber, rec.IncidentType, rec.IncidentDesc,
		rec.IncidentLocation, rec.AccusedDescription, rec.ModusOperandi,
		rec.Status, rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("create fir: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(TopicFIRIngested, corpusView(rec))
	}
	return rec, nil
}

// List retrieves all FIR records, newest first.
func (s *FIRService) List(ctx context.Context) ([]*FIRRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fir_number, incident_type, incident_description,
			incident_location, accused_description, modus_operandi, status, created_at
		FROM fir_record
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list firs: %w", err)
	}
	defer rows.Close()

	var records []*FIRRecord
	for rows.Next() {
		rec, err := scanFIR(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CorpusItems renders all records as case-corpus views, oldest first so the
// corpus grows append-only between queries.
func (s *FIRService) CorpusItems(ctx context.Context) ([]retrieval.CorpusItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fir_number, incident_type, incident_description,
			incident_location, accused_description, modus_operandi, status, created_at
		FROM fir_record
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("fir corpus: %w", err)
	}
	defer rows.Close()

	var items []retrieval.CorpusItem
	for rows.Next() {
		rec, err := scanFIR(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, corpusView(rec))
	}
	return items, rows.Err()
}

func scanFIR(rows *sql.Rows) (*FIRRecord, error) {
	var rec FIRRecord
	var createdAt string
	if err := rows.Scan(&rec.ID, &rec.FIRNumber, &rec.IncidentType, &rec.IncidentDesc,
		&rec.IncidentLocation, &rec.AccusedDescription, &rec.ModusOperandi,
		&rec.Status, &createdAt); err != nil {
		return nil, fmt.Errorf("scan fir: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = ts
	}
	return &rec, nil
}

// corpusView composes the embeddable text from every narrative field,
// space-joined, empty fields skipped.
func corpusView(rec *FIRRecord) retrieval.CorpusItem {
	var parts []string
	for _, p := range []string{
		rec.IncidentType, rec.IncidentDesc, rec.IncidentLocation,
		rec.AccusedDescription, rec.ModusOperandi,
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return retrieval.CorpusItem{
		ID:    rec.FIRNumber,
		Kind:  "fir",
		Title: rec.FIRNumber,
		Text:  strings.Join(parts, " "),
		Fields: map[string]string{
			"fir_number":        rec.FIRNumber,
			"incident_type":     rec.IncidentType,
			"incident_location": rec.IncidentLocation,
			"status":            rec.Status,
		},
	}
}
