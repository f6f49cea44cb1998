package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetSink writes tables as parquet files. Every column is carried as
// UTF8; downstream tooling re-types from the rendered values. Documents and
// reports go through a plain FileSink next to the parquet artifacts.
type ParquetSink struct {
	basePath string
	files    *FileSink
}

func NewParquetSink(basePath string) *ParquetSink {
	return &ParquetSink{
		basePath: basePath,
		files:    NewFileSink(basePath),
	}
}

func (p *ParquetSink) SaveTable(folder, name string, table *models.Table) (string, error) {
	dir := filepath.Join(p.basePath, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".parquet")

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return "", fmt.Errorf("failed to create parquet file writer: %w", err)
	}
	defer fw.Close()

	md := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		md[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY", h)
	}

	pw, err := writer.NewCSVWriter(md, fw, 4)
	if err != nil {
		return "", fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for _, row := range table.Rows {
		rec := make([]*string, len(row))
		for i := range row {
			rec[i] = &row[i]
		}
		if err := pw.WriteString(rec); err != nil {
			return "", fmt.Errorf("failed to write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return "", fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return path, nil
}

func (p *ParquetSink) SaveJSON(folder, name string, v any) (string, error) {
	return p.files.SaveJSON(folder, name, v)
}

func (p *ParquetSink) SaveText(folder, name, text string) (string, error) {
	return p.files.SaveText(folder, name, text)
}

func (p *ParquetSink) Close() error { return nil }
