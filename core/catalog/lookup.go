package catalog

import "strings"

// Inline student lookup used when a lesson or payment needs a StudentCode.
// Options are labelled "CODE — Name" and filtered by case-insensitive
// substring match on the label.

type PickerOption struct {
	Code  string
	Label string
}

func studentLabel(st Student) string {
	return st.Code + " — " + st.Name
}

// PickerOptions lists every student in snapshot order.
func (s Snapshot) PickerOptions() []PickerOption {
	opts := make([]PickerOption, 0, len(s.Students))
	for _, st := range s.Students {
		opts = append(opts, PickerOption{Code: st.Code, Label: studentLabel(st)})
	}
	return opts
}

// LabelFor returns the picker label for a code, or the bare code when it
// matches no student.
func (s Snapshot) LabelFor(code string) string {
	if st, ok := s.FindStudent(code); ok {
		return studentLabel(st)
	}
	return code
}

// StudentPicker tracks the visible search text and the underlying selected
// code. Editing the text after a selection clears the code, so a stale or
// mismatched reference can never be submitted.
type StudentPicker struct {
	options []PickerOption
	text    string
	code    string
}

func NewStudentPicker(s Snapshot) *StudentPicker {
	return &StudentPicker{options: s.PickerOptions()}
}

// Preselect seeds the picker with a known code, e.g. when a flow is opened
// from the student detail screen.
func (p *StudentPicker) Preselect(s Snapshot, code string) {
	p.code = code
	p.text = s.LabelFor(code)
}

// SetText records what the admin typed, drops any prior selection and
// returns the options matching the new text.
func (p *StudentPicker) SetText(text string) []PickerOption {
	p.text = text
	p.code = ""
	return p.Matches()
}

// Select picks an option: the label becomes the visible text and the code
// becomes the selection.
func (p *StudentPicker) Select(opt PickerOption) {
	p.text = opt.Label
	p.code = opt.Code
}

// Matches filters the options by the current text; empty text matches all.
func (p *StudentPicker) Matches() []PickerOption {
	query := strings.ToLower(strings.TrimSpace(p.text))
	if query == "" {
		return p.options
	}
	matches := make([]PickerOption, 0, len(p.options))
	for _, opt := range p.options {
		if strings.Contains(strings.ToLower(opt.Label), query) {
			matches = append(matches, opt)
		}
	}
	return matches
}

func (p *StudentPicker) Text() string { return p.text }

// Selection returns the underlying code; ok=false when nothing is selected.
func (p *StudentPicker) Selection() (string, bool) {
	return p.code, p.code != ""
}
