package patients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftercare/internal/domain"
)

type staticLoader struct {
	records []domain.PatientRecord
}

func (l staticLoader) ListAll() ([]domain.PatientRecord, error) {
	return l.records, nil
}

func newTestDirectory(t *testing.T, names ...string) *Directory {
	t.Helper()
	var records []domain.PatientRecord
	for i, name := range names {
		records = append(records, domain.PatientRecord{
			PatientID:        string(rune('A' + i)),
			Name:             name,
			PrimaryDiagnosis: "Chronic Kidney Disease Stage 3",
		})
	}
	dir, err := NewDirectory(staticLoader{records: records})
	require.NoError(t, err)
	return dir
}

func TestLookupExactMatch(t *testing.T) {
	dir := newTestDirectory(t, "John Smith", "Priya Sharma")

	res := dir.Lookup("john smith")
	require.True(t, res.Found)
	assert.Equal(t, "John Smith", res.Patient.Name)
	assert.Equal(t, domain.LookupErrorNone, res.ErrorKind)
}

func TestLookupDuplicateExactNames(t *testing.T) {
	dir := newTestDirectory(t, "John Smith", "John Smith")

	res := dir.Lookup("John Smith")
	assert.False(t, res.Found)
	assert.Equal(t, domain.LookupMultipleMatch, res.ErrorKind)
	assert.Equal(t, domain.MsgMultipleMatches, res.Message)
}

func TestLookupSubstring(t *testing.T) {
	dir := newTestDirectory(t, "John Smith", "Priya Sharma")

	res := dir.Lookup("smith")
	require.True(t, res.Found)
	assert.Equal(t, "John Smith", res.Patient.Name)
}

func TestLookupNotFound(t *testing.T) {
	dir := newTestDirectory(t, "John Smith")

	res := dir.Lookup("Jane")
	assert.False(t, res.Found)
	assert.Equal(t, domain.LookupNotFound, res.ErrorKind)
	assert.Equal(t, domain.MsgPatientNotFound, res.Message)
}

func TestLookupAmbiguousSubstring(t *testing.T) {
	dir := newTestDirectory(t, "Aditi Verma", "Aditya Nair")

	res := dir.Lookup("adit")
	assert.False(t, res.Found)
	assert.Equal(t, domain.LookupMultipleMatch, res.ErrorKind)
}

func TestDirectoryCountAndNames(t *testing.T) {
	dir := newTestDirectory(t, "John Smith", "Priya Sharma")

	assert.Equal(t, 2, dir.Count())
	assert.Equal(t, []string{"John Smith", "Priya Sharma"}, dir.Names())
}
