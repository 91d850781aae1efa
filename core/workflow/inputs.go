package workflow

import (
	"strconv"

	"github.com/trysabi/sabi-admin/core"
)

// Flow inputs. Each knows how to clean and validate itself before any
// request goes out; code names and referrer references are upper-cased on
// the way in.

type NewStudent struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	School     string `json:"school" validate:"required,oneof=FULAFIA ATBU UNIBEN"`
	Department string `json:"department" validate:"required"`
	Interest1  string `json:"interest1" validate:"required"`
	Interest2  string `json:"interest2" validate:"required"`
	Referrer   string `json:"referrer" validate:"omitempty,codename"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Phone = core.CleanString(ns.Phone)
	ns.School = core.CleanString(ns.School)
	ns.Department = core.CleanString(ns.Department)
	ns.Interest1 = core.CleanString(ns.Interest1)
	ns.Interest2 = core.CleanString(ns.Interest2)
	ns.Referrer = core.CleanString(ns.Referrer, true /* upper */)
	return core.TranslateValidationErrors(core.Validate.Struct(ns))
}

type NewLesson struct {
	StudentCode string `json:"studentCode" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	CourseCode  string `json:"courseCode"`
	// FolderPath must match the folder name in the lessons repo under /lessons/.
	FolderPath string `json:"folderPath" validate:"required"`
}

func (nl *NewLesson) Validate() error {
	nl.StudentCode = core.CleanString(nl.StudentCode)
	nl.Subject = core.CleanString(nl.Subject)
	nl.CourseCode = core.CleanString(nl.CourseCode)
	nl.FolderPath = core.CleanString(nl.FolderPath)
	return core.TranslateValidationErrors(core.Validate.Struct(nl))
}

// NewPayment takes the numeric fields as the raw text the admin typed;
// Validate parses them.
type NewPayment struct {
	StudentCode string `json:"studentCode" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	PDFPages    string `json:"pdfPages"`
	Notes       string `json:"notes"`

	amount   float64
	pdfPages int
}

func (np *NewPayment) Validate() error {
	np.StudentCode = core.CleanString(np.StudentCode)
	np.Amount = core.CleanString(np.Amount)
	np.PDFPages = core.CleanString(np.PDFPages)
	np.Notes = core.CleanString(np.Notes)

	if err := core.TranslateValidationErrors(core.Validate.Struct(np)); err != nil {
		return err
	}

	amount, err := strconv.ParseFloat(np.Amount, 64)
	if err != nil || amount < 0 {
		return core.NewValidationError(err, core.FieldError{Field: "amount", Error: "must be a non-negative number"})
	}
	np.amount = amount

	if np.PDFPages != "" {
		pages, err := strconv.Atoi(np.PDFPages)
		if err != nil || pages < 0 {
			return core.NewValidationError(err, core.FieldError{Field: "pdfPages", Error: "must be a non-negative whole number"})
		}
		np.pdfPages = pages
	}
	return nil
}

// payload is the typed body sent to the backend once parsing succeeded.
func (np *NewPayment) payload() interface{} {
	return struct {
		StudentCode string  `json:"studentCode"`
		Amount      float64 `json:"amount"`
		PDFPages    int     `json:"pdfPages,omitempty"`
		Notes       string  `json:"notes"`
	}{np.StudentCode, np.amount, np.pdfPages, np.Notes}
}

type NewReferrer struct {
	CodeName string `json:"codeName" validate:"required,codename"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	School   string `json:"school" validate:"required,oneof=FULAFIA ATBU UNIBEN"`
}

func (nr *NewReferrer) Validate() error {
	nr.CodeName = core.CleanString(nr.CodeName, true /* upper */)
	nr.FullName = core.CleanString(nr.FullName)
	nr.Phone = core.CleanString(nr.Phone)
	nr.School = core.CleanString(nr.School)
	return core.TranslateValidationErrors(core.Validate.Struct(nr))
}
