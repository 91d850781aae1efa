package catalog

import "time"

// Schools the service currently operates in. The backend stores the value
// verbatim; the dashboard filter tabs use the same strings.
const (
	SchoolFulafia = "FULAFIA"
	SchoolATBU    = "ATBU"
	SchoolUniben  = "UNIBEN"
)

// SchoolAll is the filter sentinel matching every school.
const SchoolAll = "All"

var Schools = []string{SchoolFulafia, SchoolATBU, SchoolUniben}

// RewardPerReferral is what a referrer earns per signed-up student, in naira.
const RewardPerReferral = 200

type (
	// Student is a row of the Students sheet. Code is unique within a
	// snapshot; Referrer soft-references a Referrer.CodeName and may dangle.
	Student struct {
		Code       string `json:"Code"`
		Name       string `json:"Name"`
		Phone      string `json:"Phone"`
		School     string `json:"School"`
		Department string `json:"Department"`
		Interest1  string `json:"Interest1"`
		Interest2  string `json:"Interest2"`
		Referrer   string `json:"Referrer"`
		CreatedAt  string `json:"CreatedAt"`
	}

	// Lesson soft-references Student.Code; the sheet has no row id.
	Lesson struct {
		StudentCode string `json:"StudentCode"`
		Subject     string `json:"Subject"`
		CourseCode  string `json:"CourseCode"`
		FolderPath  string `json:"FolderPath"`
		DeliveredAt string `json:"DeliveredAt"`
	}

	Payment struct {
		StudentCode string  `json:"StudentCode"`
		Amount      float64 `json:"Amount"`
		PDFPages    int     `json:"PDFPages"`
		Notes       string  `json:"Notes"`
		PaidAt      string  `json:"PaidAt"`
	}

	// Referrer is keyed by its upper-cased CodeName.
	Referrer struct {
		CodeName     string  `json:"CodeName"`
		FullName     string  `json:"FullName"`
		Phone        string  `json:"Phone"`
		School       string  `json:"School"`
		TotalPaidOut float64 `json:"TotalPaidOut"`
	}

	// AppConfig is the Config sheet singleton.
	AppConfig struct {
		WhatsAppNumber string `json:"whatsappNumber"`
		AppURL         string `json:"appURL"`
	}

	// Snapshot is the authoritative in-memory copy of the whole dataset.
	// It is replaced wholesale after load and after every successful
	// mutation; there is no patch model.
	Snapshot struct {
		Students  []Student
		Lessons   []Lesson
		Payments  []Payment
		Referrers []Referrer
		Config    AppConfig
	}
)

// AppURLOr returns the configured app URL, falling back to `dflt`.
func (c AppConfig) AppURLOr(dflt string) string {
	if c.AppURL != "" {
		return c.AppURL
	}
	return dflt
}

// FindStudent resolves a soft student reference. Unmatched codes report
// ok=false; callers treat them as "unknown", never as errors.
func (s Snapshot) FindStudent(code string) (Student, bool) {
	for _, st := range s.Students {
		if st.Code == code {
			return st, true
		}
	}
	return Student{}, false
}

// FindReferrer resolves a referrer code name, exact match as stored.
func (s Snapshot) FindReferrer(codeName string) (Referrer, bool) {
	for _, r := range s.Referrers {
		if r.CodeName == codeName {
			return r, true
		}
	}
	return Referrer{}, false
}

// codesWithLessons indexes which students have at least one lesson.
func (s Snapshot) codesWithLessons() map[string]bool {
	codes := make(map[string]bool, len(s.Lessons))
	for _, l := range s.Lessons {
		codes[l.StudentCode] = true
	}
	return codes
}

// timestamp formats the sheet may hand back for CreatedAt/PaidAt/DeliveredAt.
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseWhen parses a sheet timestamp. Missing or unparseable values report
// ok=false and sort as earliest.
func parseWhen(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
