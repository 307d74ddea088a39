package queue

import (
	"encoding/json"
	"testing"
)

func TestIngestJobValidate(t *testing.T) {
	tests := []struct {
		name    string
		job     IngestJob
		wantErr bool
	}{
		{"minimal", IngestJob{Query: "Apple"}, false},
		{"full", IngestJob{Query: "Apple", From: "2024-10-21", To: "2024-10-22", Language: "en", PageSize: 5}, false},
		{"missing query", IngestJob{}, true},
		{"bad date", IngestJob{Query: "Apple", From: "21.10.2024"}, true},
		{"bad language", IngestJob{Query: "Apple", Language: "english"}, true},
		{"page size too large", IngestJob{Query: "Apple", PageSize: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewIngestJob(t *testing.T) {
	j, err := NewIngestJob(IngestJob{Query: "Apple"})
	if err != nil {
		t.Fatalf("NewIngestJob() error = %v", err)
	}
	if j.ID == "" || j.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", j)
	}

	body, _ := json.Marshal(j)
	decoded, err := DecodeIngestJob(body)
	if err != nil {
		t.Fatalf("DecodeIngestJob() error = %v", err)
	}
	if decoded.ID != j.ID || decoded.Query != "Apple" {
		t.Fatalf("unexpected decoded job %+v", decoded)
	}

	if _, err := DecodeIngestJob([]byte(`{"query":""}`)); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := DecodeIngestJob([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
