package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IngestJob asks a worker to fetch articles for a query and run them
// through the extraction pipeline.
type IngestJob struct {
	ID       string `json:"id"`
	Query    string `json:"query" validate:"required"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Language string `json:"language,omitempty" validate:"omitempty,len=2"`
	PageSize int    `json:"page_size,omitempty" validate:"gte=0,lte=100"`

	CreatedAt time.Time `json:"created_at"`
}

// ErrInvalidJob marks a queued body that can never be processed.
var ErrInvalidJob = errors.New("invalid ingest job")

var validate = validator.New()

const dateLayout = "2006-01-02"

func (j IngestJob) Validate() error {
	if err := validate.Struct(j); err != nil {
		return err
	}
	for _, d := range []string{j.From, j.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	return nil
}

// NewIngestJob validates j and assigns it an ID.
func NewIngestJob(j IngestJob) (IngestJob, error) {
	if err := j.Validate(); err != nil {
		return IngestJob{}, err
	}
	id, err := gonanoid.New()
	if err != nil {
		return IngestJob{}, fmt.Errorf("failed to generate job id: %w", err)
	}
	j.ID = id
	j.CreatedAt = time.Now().UTC()
	return j, nil
}

// DecodeIngestJob parses and validates a queued job body.
func DecodeIngestJob(body []byte) (IngestJob, error) {
	var j IngestJob
	if err := json.Unmarshal(body, &j); err != nil {
		return IngestJob{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	if err := j.Validate(); err != nil {
		return IngestJob{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return j, nil
}
