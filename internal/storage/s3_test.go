package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObjectAPI struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestExporterPutFile(t *testing.T) {
	api := &fakeObjectAPI{}
	exp := NewExporter(api, "graphs", "/exports/")

	key, err := exp.PutFile(context.Background(), "run123", "graph.svg", strings.NewReader("<svg/>"))
	if err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}
	if key != "exports/run123/graph.svg" {
		t.Fatalf("unexpected key %s", key)
	}

	in := api.inputs[0]
	if aws.ToString(in.Bucket) != "graphs" || aws.ToString(in.Key) != key {
		t.Fatalf("unexpected input %+v", in)
	}
	if ct := aws.ToString(in.ContentType); ct != "image/svg+xml" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if api.bodies[0] != "<svg/>" {
		t.Fatalf("unexpected body %q", api.bodies[0])
	}
}

func TestExporterPutFileError(t *testing.T) {
	exp := NewExporter(&fakeObjectAPI{err: errors.New("denied")}, "graphs", "")
	if _, err := exp.PutFile(context.Background(), "r", "graph.json", strings.NewReader("{}")); err == nil {
		t.Fatalf("expected error")
	}
	if got := exp.Key("r", "graph.json"); got != "r/graph.json" {
		t.Fatalf("unexpected key %s", got)
	}
}
