package domain

// PatientRecord is a discharge record loaded from the patient store. The core
// never mutates one; a session holds at most a single record, set when the
// receptionist resolves the patient's name.
type PatientRecord struct {
	PatientID            string   `json:"patient_id"`
	Name                 string   `json:"name"`
	DischargeDate        string   `json:"discharge_date"`
	AdmissionDate        string   `json:"admission_date"`
	PrimaryDiagnosis     string   `json:"primary_diagnosis"`
	SecondaryDiagnoses   []string `json:"secondary_diagnoses"`
	Procedures           []string `json:"procedures"`
	Medications          []string `json:"medications"`
	WarningSigns         []string `json:"warning_signs"`
	FollowUpInstructions []string `json:"follow_up_instructions"`
	NextAppointment      string   `json:"next_appointment,omitempty"`
	DischargeSummary     string   `json:"discharge_summary"`
}

// LookupErrorKind classifies a failed patient lookup.
type LookupErrorKind string

const (
	LookupErrorNone     LookupErrorKind = ""
	LookupNotFound      LookupErrorKind = "not_found"
	LookupMultipleMatch LookupErrorKind = "multiple_matches"
)

// PatientLookupResult is the outcome of a name lookup. Message carries the
// user-facing explanation when Found is false; it is never an internal error.
type PatientLookupResult struct {
	Found     bool
	Patient   *PatientRecord
	Message   string
	ErrorKind LookupErrorKind
}
