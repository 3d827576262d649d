package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCSV = "\ufeff\"uid_archive\",Sentiment,prominence,company_parent,corp_industry_sector1,ngo_name1,active_country1,target_country1,issue_name1\n" +
	"A-1,1,0,Acme,Banking,Greenpeace,US,BR,Deforestation\n" +
	"A-2,-1,3,Acme,Banking,0,US,nan,Water pollution\n"

const sampleJSON = `[
  {"uid_archive": "B-1", "sentiment": 0, "prominence": 0, "company_parent": "Beta", "corp_industry_sector1": "Retail", "ngo_name1": "WWF"}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRecordTable_ConcatenatesInFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_retail.json", sampleJSON)
	writeFile(t, dir, "a_banks.csv", sampleCSV)
	writeFile(t, dir, "notes.txt", "ignored")

	table, err := LoadRecordTable(context.Background(), dir, 4, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, []string{filepath.Join(dir, "a_banks.csv"), filepath.Join(dir, "b_retail.json")}, table.Sources)

	uids := []string{table.Records[0].UID, table.Records[1].UID, table.Records[2].UID}
	assert.Equal(t, []string{"A-1", "A-2", "B-1"}, uids)

	second := table.Records[1]
	assert.Equal(t, 3, second.Prominence)
	assert.Empty(t, second.NGONames.Set())
	assert.Empty(t, second.TargetCountries.Set())

	sector, ok := table.Records[2].IndustrySector.Get()
	assert.True(t, ok)
	assert.Equal(t, "Retail", sector)
}

func TestLoadRecordTable_SameResultAnyWorkerCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.csv", sampleCSV)
	writeFile(t, dir, "2.json", sampleJSON)
	writeFile(t, dir, "3.csv", sampleCSV)

	sequential, err := LoadRecordTable(context.Background(), dir, 1, zap.NewNop())
	require.NoError(t, err)
	parallel, err := LoadRecordTable(context.Background(), dir, 8, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, sequential.Records, parallel.Records)
}

func TestLoadRecordTable_NoInputFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "nothing here")

	_, err := LoadRecordTable(context.Background(), dir, 2, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoInputFiles)

	var ierr *IngestError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, dir, ierr.Path)
}

func TestLoadRecordTable_MissingDir(t *testing.T) {
	_, err := LoadRecordTable(context.Background(), filepath.Join(t.TempDir(), "missing"), 2, zap.NewNop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRecordTable_MalformedFileNamesPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.csv", sampleCSV)
	bad := writeFile(t, dir, "bad.json", `{"not": "an array"`)

	_, err := LoadRecordTable(context.Background(), dir, 2, zap.NewNop())
	var ierr *IngestError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, bad, ierr.Path)
}

func TestLoadRecordTable_InvalidCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", "uid_archive,sentiment,prominence\nZ-9,4,1\n")

	_, err := LoadRecordTable(context.Background(), dir, 1, zap.NewNop())
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Z-9", verr.UID)
	assert.Equal(t, 4, verr.Value)
}

func TestLoadRecordTable_LabelledSentimentColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "labelled.csv", "uid_archive,sentiment,prominence\nA-1,1,0\nA-2,Negative,3\n")

	_, err := LoadRecordTable(context.Background(), dir, 1, zap.NewNop())
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "A-2", verr.UID)
	assert.Equal(t, ColSentiment, verr.Field)
	assert.Equal(t, "Negative", verr.Value)
}

func TestIngestFile_RaggedCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ragged.csv", "sentiment,prominence\n1,2,3\n")

	_, err := IngestFile(context.Background(), path)
	var ierr *IngestError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, path, ierr.Path)
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "uid_archive", cleanHeader("\ufeff\"UID_Archive\" "))
	assert.Equal(t, "ngo_name1", cleanHeader("ngo_name1"))
}
