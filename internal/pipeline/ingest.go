package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ngo-campaign-pipeline/internal/model"
)

// GenericRecord is one raw row keyed by normalized column name
type GenericRecord map[string]interface{}

const (
	sourceKey = "_source"
	rowKey    = "_row"
)

// ------------------- Ingestion -------------------

// ListInputFiles returns the supported files of dir sorted by name.
func ListInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IngestError{Path: dir, Err: err}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, &IngestError{Path: dir, Err: ErrNoInputFiles}
	}
	return files, nil
}

// LoadRecordTable reads every input file of dir and concatenates the rows in
// file-name order. Any unreadable file or invalid record aborts the load.
func LoadRecordTable(ctx context.Context, dir string, workers int, logger *zap.Logger) (*model.RecordTable, error) {
	files, err := ListInputFiles(dir)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 1
	}

	rowsPerFile := make([][]GenericRecord, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			rows, err := IngestFile(gctx, path)
			if err != nil {
				return err
			}
			rowsPerFile[i] = rows
			logger.Info("📄 Ingested input file", zap.String("path", path), zap.Int("rows", len(rows)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := &model.RecordTable{Sources: files}
	for _, rows := range rowsPerFile {
		records, err := NormalizeRecords(rows)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, records...)
	}

	logger.Info("✅ Record table loaded", zap.Int("files", len(files)), zap.Int("records", table.Len()))
	return table, nil
}

// IngestFile reads a single CSV or JSON file into raw rows.
func IngestFile(ctx context.Context, path string) ([]GenericRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IngestError{Path: path, Err: err}
	}
	defer file.Close()

	var rows []GenericRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(ctx, file)
	case ".json":
		rows, err = readJSON(file)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &IngestError{Path: path, Err: err}
	}

	for i, rec := range rows {
		rec[sourceKey] = path
		rec[rowKey] = i + 1
	}
	return rows, nil
}

// ------------------- CSV Ingestion -------------------
func readCSV(ctx context.Context, r io.Reader) ([]GenericRecord, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = cleanHeader(h)
	}

	var rows []GenericRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := csvReader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rec := make(GenericRecord, len(headers))
		for i, h := range headers {
			rec[h] = record[i]
		}
		rows = append(rows, rec)
	}
}

// ------------------- JSON Ingestion -------------------
func readJSON(r io.Reader) ([]GenericRecord, error) {
	var raw []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	rows := make([]GenericRecord, 0, len(raw))
	for _, item := range raw {
		rec := make(GenericRecord, len(item))
		for k, v := range item {
			rec[cleanHeader(k)] = v
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// cleanHeader trims whitespace, drops quotes and lowercases a column name
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	return strings.ToLower(h)
}
