package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cafesim-io/cafedatasim/internal/models"
)

// Sink persists simulation artifacts. Folder groups related artifacts
// (datasets, forecasts, configs, history, reports); name is the artifact name
// without extension. Implementations return the path or locator they wrote
// to.
type Sink interface {
	SaveTable(folder, name string, table *models.Table) (string, error)
	SaveJSON(folder, name string, v any) (string, error)
	SaveText(folder, name, text string) (string, error)
	Close() error
}

// ForConfig selects a sink from the configured output mode.
func ForConfig(cfg *models.Config) (Sink, error) {
	switch cfg.Output {
	case "", "console":
		return &ConsoleSink{}, nil
	case "file", "csv":
		return NewFileSink(cfg.OutputPath), nil
	case "parquet":
		return NewParquetSink(cfg.OutputPath), nil
	case "postgres":
		return NewPostgresSink(cfg.PostgresConnString)
	case "kafka":
		return NewKafkaSink(cfg.KafkaBrokerList)
	case "s3":
		return NewS3Sink(cfg.S3Region, cfg.S3Bucket)
	default:
		return nil, fmt.Errorf("unsupported output mode: %s", cfg.Output)
	}
}

// ConsoleSink prints artifacts to stdout. Useful for demos and dry runs.
type ConsoleSink struct{}

func (c *ConsoleSink) SaveTable(folder, name string, table *models.Table) (string, error) {
	data, err := renderCSV(table)
	if err != nil {
		return "", err
	}
	fmt.Printf("[%s/%s]\n%s", folder, name, data)
	return fmt.Sprintf("console:%s/%s", folder, name), nil
}

func (c *ConsoleSink) SaveJSON(folder, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	fmt.Printf("[%s/%s]\n%s\n", folder, name, data)
	return fmt.Sprintf("console:%s/%s", folder, name), nil
}

func (c *ConsoleSink) SaveText(folder, name, text string) (string, error) {
	fmt.Printf("[%s/%s]\n%s\n", folder, name, text)
	return fmt.Sprintf("console:%s/%s", folder, name), nil
}

func (c *ConsoleSink) Close() error { return nil }

// FileSink writes artifacts under basePath/folder: tables as CSV, documents
// as JSON, reports as plain text.
type FileSink struct {
	basePath string
}

func NewFileSink(basePath string) *FileSink {
	return &FileSink{basePath: basePath}
}

func (f *FileSink) SaveTable(folder, name string, table *models.Table) (string, error) {
	data, err := renderCSV(table)
	if err != nil {
		return "", err
	}
	return f.write(folder, name+".csv", data)
}

func (f *FileSink) SaveJSON(folder, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return f.write(folder, name+".json", append(data, '\n'))
}

func (f *FileSink) SaveText(folder, name, text string) (string, error) {
	return f.write(folder, name+".txt", []byte(text))
}

func (f *FileSink) write(folder, filename string, data []byte) (string, error) {
	dir := filepath.Join(f.basePath, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *FileSink) Close() error { return nil }

func renderCSV(table *models.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Headers); err != nil {
		return nil, err
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
