// Package legal provides the source-of-truth row services for the
// legal-assistance backend: IPC sections, the mixed knowledge base
// (sections, acts, legal terms, FAQs, procedures) and FIR case records.
// Each service exposes its rows as retrieval corpus views.
package legal

import "time"

// Topics published on the event bus.
const (
	// TopicFIRIngested carries a retrieval.CorpusItem for every newly
	// filed FIR record.
	TopicFIRIngested = "fir.ingested"
)

// Section is one IPC section row.
type Section struct {
	SectionNumber   string `json:"section_number"`
	SectionTitle    string `json:"section_title"`
	Description     string `json:"description"`
	Punishment      string `json:"punishment"`
	ExampleUseCases string `json:"example_use_cases"`
}

// FIRRecord is one First Information Report row.
type FIRRecord struct {
	ID                 string    `json:"id"`
	FIRNumber          string    `json:"fir_number"`
	IncidentType       string    `json:"incident_type"`
	IncidentDesc       string    `json:"incident_description"`
	IncidentLocation   string    `json:"incident_location"`
	AccusedDescription string    `json:"accused_description"`
	ModusOperandi      string    `json:"modus_operandi"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateFIRInput defines required + optional fields for filing a record.
type CreateFIRInput struct {
	FIRNumber          string
	IncidentType       string
	IncidentDesc       string
	IncidentLocation   string
	AccusedDescription string
	ModusOperandi      string
	Status             string
}
