package workflow

import (
	"context"

	"github.com/trysabi/sabi-admin/core/catalog"
)

type (
	// StudentArtifacts is what a successful addStudent offers for copy: the
	// server-generated code, bare and wrapped in the onboarding message.
	StudentArtifacts struct {
		Code       string
		Onboarding string
	}

	StudentFlow struct {
		flow
		Input  NewStudent
		Result StudentArtifacts
	}
)

func (c *Controller) AddStudent() *StudentFlow {
	return &StudentFlow{flow: newFlow(c)}
}

func (f *StudentFlow) Submit(ctx context.Context) error {
	res, err := f.submit(ctx, f.Input.Validate, catalog.ActionAddStudent, func() interface{} { return &f.Input })
	if err != nil {
		return err
	}
	f.Result = StudentArtifacts{
		Code:       res.Code,
		Onboarding: OnboardingMessage(res.Code, f.ctl.appURL()),
	}
	f.succeed()
	return nil
}

type (
	LessonArtifacts struct {
		Notification string
	}

	LessonFlow struct {
		flow
		Picker *catalog.StudentPicker
		Input  NewLesson
		Result LessonArtifacts
	}
)

// AddLesson opens a lesson flow; preselect carries a code straight from the
// student detail screen into the picker.
func (c *Controller) AddLesson(preselect string) *LessonFlow {
	snap := c.snapshot()
	picker := catalog.NewStudentPicker(snap)
	if preselect != "" {
		picker.Preselect(snap, preselect)
	}
	return &LessonFlow{flow: newFlow(c), Picker: picker}
}

func (f *LessonFlow) Submit(ctx context.Context) error {
	if code, ok := f.Picker.Selection(); ok {
		f.Input.StudentCode = code
	} else {
		f.Input.StudentCode = ""
	}

	_, err := f.submit(ctx, f.Input.Validate, catalog.ActionAddLesson, func() interface{} { return &f.Input })
	if err != nil {
		return err
	}

	// unknown codes fall back to the bare code in the notification
	name := f.Input.StudentCode
	if st, ok := f.ctl.snapshot().FindStudent(f.Input.StudentCode); ok {
		name = st.Name
	}
	f.Result = LessonArtifacts{
		Notification: LessonNotification(name, f.Input.Subject, f.Input.StudentCode, f.ctl.appURL()),
	}
	f.succeed()
	return nil
}

type PaymentFlow struct {
	flow
	Picker *catalog.StudentPicker
	Input  NewPayment
}

func (c *Controller) AddPayment(preselect string) *PaymentFlow {
	snap := c.snapshot()
	picker := catalog.NewStudentPicker(snap)
	if preselect != "" {
		picker.Preselect(snap, preselect)
	}
	return &PaymentFlow{flow: newFlow(c), Picker: picker}
}

// Submit records a payment. Success carries no artifact beyond the
// confirmation state itself.
func (f *PaymentFlow) Submit(ctx context.Context) error {
	if code, ok := f.Picker.Selection(); ok {
		f.Input.StudentCode = code
	} else {
		f.Input.StudentCode = ""
	}

	_, err := f.submit(ctx, f.Input.Validate, catalog.ActionAddPayment, f.Input.payload)
	if err != nil {
		return err
	}
	f.succeed()
	return nil
}

type (
	// ReferrerArtifacts carries the shareable wa.me link; Available is false
	// when the Config sheet has no WhatsApp number yet.
	ReferrerArtifacts struct {
		Link      string
		Available bool
	}

	ReferrerFlow struct {
		flow
		Input  NewReferrer
		Result ReferrerArtifacts
	}
)

func (c *Controller) AddReferrer() *ReferrerFlow {
	return &ReferrerFlow{flow: newFlow(c)}
}

func (f *ReferrerFlow) Submit(ctx context.Context) error {
	_, err := f.submit(ctx, f.Input.Validate, catalog.ActionAddReferrer, func() interface{} { return &f.Input })
	if err != nil {
		return err
	}
	link, ok := ReferralLink(f.ctl.snapshot().Config.WhatsAppNumber, f.Input.CodeName)
	f.Result = ReferrerArtifacts{Link: link, Available: ok}
	f.succeed()
	return nil
}
