package output

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/cafesim-io/cafedatasim/internal/cloudwriter"
	"github.com/cafesim-io/cafedatasim/internal/models"
)

// S3Sink uploads artifacts to an S3 bucket: tables as CSV objects, documents
// as JSON, reports as plain text, under <folder>/<name>.<ext> keys.
type S3Sink struct {
	factory cloudwriter.CloudWriterFactory
	bucket  string
}

func NewS3Sink(region, bucket string) (*S3Sink, error) {
	factory, err := cloudwriter.NewS3WriterFactory(region)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 writer factory: %w", err)
	}
	return &S3Sink{factory: factory, bucket: bucket}, nil
}

func (s *S3Sink) SaveTable(folder, name string, table *models.Table) (string, error) {
	data, err := renderCSV(table)
	if err != nil {
		return "", err
	}
	return s.upload(folder, name+".csv", "text/csv", data)
}

func (s *S3Sink) SaveJSON(folder, name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return s.upload(folder, name+".json", "application/json", data)
}

func (s *S3Sink) SaveText(folder, name, text string) (string, error) {
	return s.upload(folder, name+".txt", "text/plain", []byte(text))
}

func (s *S3Sink) upload(folder, filename, contentType string, data []byte) (string, error) {
	key := path.Join(folder, filename)
	w, err := s.factory.NewWriter(s.bucket, key, contentType)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *S3Sink) Close() error { return nil }
