package patients

import (
	"strings"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// Loader supplies the full record list, file or database backed.
type Loader interface {
	ListAll() ([]domain.PatientRecord, error)
}

// Directory is an in-memory patient lookup over the loaded records. Matching
// runs exact-first, then substring; the token index only narrows candidates
// for exact queries and never changes match semantics.
type Directory struct {
	loader  Loader
	records []domain.PatientRecord
	// normalized full name or name token -> record indices
	nameIndex map[string][]int
}

func NewDirectory(loader Loader) (*Directory, error) {
	d := &Directory{loader: loader}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads the records and rebuilds the name index.
func (d *Directory) Reload() error {
	records, err := d.loader.ListAll()
	if err != nil {
		return err
	}

	d.records = records
	d.nameIndex = make(map[string][]int)
	for i, rec := range records {
		full := normalizeName(rec.Name)
		d.nameIndex[full] = append(d.nameIndex[full], i)

		parts := strings.Fields(full)
		if len(parts) >= 2 {
			first, last := parts[0], parts[len(parts)-1]
			d.nameIndex[first] = append(d.nameIndex[first], i)
			if last != first {
				d.nameIndex[last] = append(d.nameIndex[last], i)
			}
		}
	}
	return nil
}

// Lookup resolves a patient by full or partial name. Exact (normalized)
// matches win; otherwise the query is matched as a substring of the
// normalized full names.
func (d *Directory) Lookup(name string) domain.PatientLookupResult {
	log := observability.Logger().With("tool", "patient_directory", "query", name)
	query := normalizeName(name)

	if indices, ok := d.nameIndex[query]; ok {
		if len(indices) > 1 {
			log.Info("lookup returned multiple exact matches")
			return multipleMatches()
		}
		rec := d.records[indices[0]]
		log.Info("lookup found patient", "patient_id", rec.PatientID)
		return domain.PatientLookupResult{Found: true, Patient: &rec}
	}

	var matches []int
	for i, rec := range d.records {
		if strings.Contains(normalizeName(rec.Name), query) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		log.Info("lookup found no patient")
		return domain.PatientLookupResult{
			Found:     false,
			Message:   domain.MsgPatientNotFound,
			ErrorKind: domain.LookupNotFound,
		}
	case 1:
		rec := d.records[matches[0]]
		log.Info("lookup found patient by substring", "patient_id", rec.PatientID)
		return domain.PatientLookupResult{Found: true, Patient: &rec}
	default:
		log.Info("lookup returned multiple substring matches", "count", len(matches))
		return multipleMatches()
	}
}

func (d *Directory) Count() int {
	return len(d.records)
}

func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.records))
	for _, rec := range d.records {
		names = append(names, rec.Name)
	}
	return names
}

func multipleMatches() domain.PatientLookupResult {
	return domain.PatientLookupResult{
		Found:     false,
		Message:   domain.MsgMultipleMatches,
		ErrorKind: domain.LookupMultipleMatch,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
