// Package batch defines the events exchanged between ingestion and
// processing over NATS.
package batch

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	SubjectRequested  = "batches.requested"
	SubjectNormalized = "batches.normalized"

	ProcessingQueue = "processing-service"
)

// runNamespace scopes deterministic run IDs.
var runNamespace = uuid.MustParse("7d1b3a52-52f4-4a8e-9d55-4e0a8e3f2c61")

// Request asks processing to normalize one dataset.
type Request struct {
	ID          uuid.UUID `json:"id"`
	Dataset     string    `json:"dataset"`
	Domain      string    `json:"domain"`
	InputPath   string    `json:"input_path"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewRequest(dataset, domain, inputPath, fingerprint string) Request {
	return Request{
		ID:          uuid.New(),
		Dataset:     dataset,
		Domain:      domain,
		InputPath:   inputPath,
		Fingerprint: fingerprint,
		RequestedAt: time.Now().UTC(),
	}
}

// RunID is stable for a dataset and input fingerprint, so re-processing the
// same files writes the same run into the sinks. Without a fingerprint the
// request ID is used.
func (r Request) RunID() uuid.UUID {
	if r.Fingerprint == "" {
		return r.ID
	}
	return uuid.NewSHA1(runNamespace, []byte(r.Dataset+"\x00"+r.Fingerprint))
}

func (r Request) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

func (r *Request) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}

// Normalized announces a finished run.
type Normalized struct {
	RunID             uuid.UUID      `json:"run_id"`
	RequestID         uuid.UUID      `json:"request_id"`
	Dataset           string         `json:"dataset"`
	Domain            string         `json:"domain"`
	OutputPath        string         `json:"output_path"`
	InputRows         int            `json:"input_rows"`
	OutputRows        int            `json:"output_rows"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	Loaded            map[string]int `json:"loaded,omitempty"`
	CompletedAt       time.Time      `json:"completed_at"`
}

func (n Normalized) MarshalBinary() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Normalized) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, n)
}
