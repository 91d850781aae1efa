package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trysabi/sabi-admin/core"
	"github.com/trysabi/sabi-admin/core/catalog"
	"github.com/trysabi/sabi-admin/core/workflow"
	inmemsession "github.com/trysabi/sabi-admin/storage/session/inmem"
	testutil "github.com/trysabi/sabi-admin/tests"
)

const defaultAppURL = "trysabi.netlify.app"

func setup(t *testing.T, client *testutil.FakeClient) *workflow.Controller {
	t.Helper()
	session := inmemsession.NewStore("SECRET")
	store := catalog.NewStore(client, session, nil)
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("setup reload failed: %v", err)
	}
	return workflow.NewController(client, store, session, nil, defaultAppURL)
}

func validStudent() workflow.NewStudent {
	return workflow.NewStudent{
		Name:       "Emeka Okafor",
		Phone:      "08012345678",
		School:     catalog.SchoolFulafia,
		Department: "Computer Science",
		Interest1:  "Football",
		Interest2:  "Cooking",
	}
}

func TestStudentFlow_emptyNameNeverHitsNetwork(t *testing.T) {
	client := &testutil.FakeClient{}
	ctl := setup(t, client)
	mutationsBefore := client.MutateCalls

	flow := ctl.AddStudent()
	flow.Input = validStudent()
	flow.Input.Name = ""

	err := flow.Submit(context.Background())
	if err == nil {
		t.Fatal("Submit() should fail validation")
	}
	if !core.IsValidationError(err) {
		t.Fatalf("Submit() error = %v, want validation error", err)
	}
	if flow.Status() != workflow.StatusFieldError {
		t.Errorf("status = %v, want field error", flow.Status())
	}
	if client.MutateCalls != mutationsBefore {
		t.Error("local validation failure must not issue a network call")
	}

	var found bool
	for _, fe := range flow.FieldErrors() {
		if fe.Field == "name" {
			found = true
		}
	}
	if !found {
		t.Errorf("FieldErrors() = %v, want an entry for name", flow.FieldErrors())
	}
}

func TestStudentFlow_success(t *testing.T) {
	client := &testutil.FakeClient{MutateResult: catalog.MutationResult{Code: "FL-042"}}
	ctl := setup(t, client)

	flow := ctl.AddStudent()
	flow.Input = validStudent()
	flow.Input.Referrer = "chidi" // upper-cased before submission

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if flow.Status() != workflow.StatusSuccess {
		t.Fatalf("status = %v, want success", flow.Status())
	}
	assert.Equal(t, catalog.ActionAddStudent, client.LastAction)
	assert.Equal(t, "CHIDI", flow.Input.Referrer)

	assert.Equal(t, "FL-042", flow.Result.Code)
	assert.Equal(t,
		"Your code is FL-042\n\nGo to trysabi.netlify.app and enter your code to access your lessons.\n\nSave this message! 🔥",
		flow.Result.Onboarding)
}

func TestStudentFlow_serverError(t *testing.T) {
	client := &testutil.FakeClient{MutateErr: core.NewServerError("Phone already registered")}
	ctl := setup(t, client)

	flow := ctl.AddStudent()
	flow.Input = validStudent()

	err := flow.Submit(context.Background())
	if !core.IsServerError(err) {
		t.Fatalf("Submit() error = %v, want server error", err)
	}
	if flow.Status() != workflow.StatusServerError {
		t.Errorf("status = %v, want server error", flow.Status())
	}
	// the server's message surfaces verbatim
	assert.Equal(t, "Phone already registered", flow.ErrorMessage())

	// the flow is editable and retryable
	flow.Edit()
	if flow.Status() != workflow.StatusEditing {
		t.Errorf("status after Edit() = %v, want editing", flow.Status())
	}
	client.MutateErr = nil
	if err := flow.Submit(context.Background()); err != nil {
		t.Errorf("retry Submit() failed: %v", err)
	}
}

func TestStudentFlow_connectionError(t *testing.T) {
	client := &testutil.FakeClient{MutateErr: core.NewConnectionError(nil)}
	ctl := setup(t, client)

	flow := ctl.AddStudent()
	flow.Input = validStudent()

	err := flow.Submit(context.Background())
	if !core.IsConnectionError(err) {
		t.Fatalf("Submit() error = %v, want connection error", err)
	}
	assert.Equal(t, "Connection error. Try again.", flow.ErrorMessage())
	// input survives for manual retry
	assert.Equal(t, "Emeka Okafor", flow.Input.Name)
}

func TestStudentFlow_doubleSubmitRejected(t *testing.T) {
	client := &testutil.FakeClient{MutateResult: catalog.MutationResult{Code: "FL-001"}}
	ctl := setup(t, client)

	flow := ctl.AddStudent()
	flow.Input = validStudent()
	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	// a successful flow is terminal for this invocation
	err := flow.Submit(context.Background())
	if err != workflow.ErrFlowDone {
		t.Fatalf("second Submit() error = %v, want ErrFlowDone", err)
	}
	if client.MutateCalls != 1 {
		t.Errorf("MutateCalls = %d, want 1", client.MutateCalls)
	}
}

func TestStudentFlow_closeTriggersReload(t *testing.T) {
	client := &testutil.FakeClient{MutateResult: catalog.MutationResult{Code: "FL-001"}}
	ctl := setup(t, client)
	loadsBefore := client.LoadCalls

	flow := ctl.AddStudent()
	flow.Input = validStudent()
	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if err := flow.Close(context.Background()); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if client.LoadCalls != loadsBefore+1 {
		t.Errorf("LoadCalls = %d, want %d: closing a success reloads once", client.LoadCalls, loadsBefore+1)
	}

	// closing a failed flow reloads nothing
	failed := ctl.AddStudent()
	if err := failed.Close(context.Background()); err != nil {
		t.Fatalf("Close() on editing flow failed: %v", err)
	}
	if client.LoadCalls != loadsBefore+1 {
		t.Errorf("LoadCalls = %d, want unchanged", client.LoadCalls)
	}
}

func TestLessonFlow(t *testing.T) {
	client := &testutil.FakeClient{
		Snap: catalog.Snapshot{
			Students: []catalog.Student{testutil.MakeStudent("FL-001", "Ada", catalog.SchoolFulafia, "2024-01-01")},
			Config:   catalog.AppConfig{AppURL: "sabi.app"},
		},
	}
	ctl := setup(t, client)

	flow := ctl.AddLesson("FL-001")
	flow.Input.Subject = "Data Structures"
	flow.Input.FolderPath = "FLAME-dsa"

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	assert.Equal(t, catalog.ActionAddLesson, client.LastAction)
	assert.Equal(t,
		"Hey Ada! Your Data Structures lesson is ready 🔥\n\nGo to sabi.app → enter your code: FL-001\n\nEnjoy!",
		flow.Result.Notification)
}

func TestLessonFlow_missingStudentSelection(t *testing.T) {
	client := &testutil.FakeClient{
		Snap: catalog.Snapshot{Students: []catalog.Student{testutil.MakeStudent("FL-001", "Ada", catalog.SchoolFulafia, "2024-01-01")}},
	}
	ctl := setup(t, client)

	flow := ctl.AddLesson("")
	flow.Input.Subject = "Maths"
	flow.Input.FolderPath = "FLAME-maths"
	// typing without selecting leaves no underlying code
	flow.Picker.SetText("Ada")

	err := flow.Submit(context.Background())
	if !core.IsValidationError(err) {
		t.Fatalf("Submit() error = %v, want validation error", err)
	}
	if client.MutateCalls != 0 {
		t.Error("no network call without a selected student")
	}
}

func TestLessonFlow_unknownStudentFallsBackToCode(t *testing.T) {
	client := &testutil.FakeClient{
		Snap: catalog.Snapshot{Students: []catalog.Student{testutil.MakeStudent("FL-001", "Ada", catalog.SchoolFulafia, "2024-01-01")}},
	}
	ctl := setup(t, client)

	// preselected code that no longer matches a student: treated as unknown
	flow := ctl.AddLesson("GHOST")
	flow.Input.Subject = "Maths"
	flow.Input.FolderPath = "FLAME-maths"

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	assert.Contains(t, flow.Result.Notification, "Hey GHOST!")
}

func TestPaymentFlow(t *testing.T) {
	client := &testutil.FakeClient{
		Snap: catalog.Snapshot{Students: []catalog.Student{testutil.MakeStudent("FL-001", "Ada", catalog.SchoolFulafia, "2024-01-01")}},
	}
	ctl := setup(t, client)

	flow := ctl.AddPayment("FL-001")
	flow.Input.Amount = "500"
	flow.Input.PDFPages = "45"

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	assert.Equal(t, catalog.ActionAddPayment, client.LastAction)
	if flow.Status() != workflow.StatusSuccess {
		t.Errorf("status = %v, want success", flow.Status())
	}
}

func TestPaymentFlow_badAmount(t *testing.T) {
	client := &testutil.FakeClient{
		Snap: catalog.Snapshot{Students: []catalog.Student{testutil.MakeStudent("FL-001", "Ada", catalog.SchoolFulafia, "2024-01-01")}},
	}
	ctl := setup(t, client)

	tests := []struct {
		name   string
		amount string
	}{
		{name: "not a number", amount: "abc"},
		{name: "negative", amount: "-5"},
		{name: "empty", amount: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := ctl.AddPayment("FL-001")
			flow.Input.Amount = tt.amount

			err := flow.Submit(context.Background())
			if !core.IsValidationError(err) {
				t.Fatalf("Submit() error = %v, want validation error", err)
			}
		})
	}
	if client.MutateCalls != 0 {
		t.Error("invalid amounts must never reach the network")
	}
}

func TestReferrerFlow(t *testing.T) {
	client := &testutil.FakeClient{
		Snap: catalog.Snapshot{Config: catalog.AppConfig{WhatsAppNumber: "2348000000000"}},
	}
	ctl := setup(t, client)

	flow := ctl.AddReferrer()
	flow.Input = workflow.NewReferrer{
		CodeName: "chidi",
		FullName: "Chidi Okonkwo",
		Phone:    "08012345678",
		School:   catalog.SchoolATBU,
	}

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	assert.Equal(t, "CHIDI", flow.Input.CodeName)
	if !flow.Result.Available {
		t.Fatal("link should be available")
	}
	assert.Equal(t, "wa.me/2348000000000?text=Hey!%20I%20need%20a%20lesson%20-%20ref%3ACHIDI", flow.Result.Link)
}

func TestReferrerFlow_noWhatsAppNumber(t *testing.T) {
	client := &testutil.FakeClient{}
	ctl := setup(t, client)

	flow := ctl.AddReferrer()
	flow.Input = workflow.NewReferrer{
		CodeName: "CHIDI",
		FullName: "Chidi Okonkwo",
		Phone:    "08012345678",
		School:   catalog.SchoolATBU,
	}

	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	// unavailable, not silently broken
	if flow.Result.Available {
		t.Error("link must be reported unavailable without a configured number")
	}
	assert.Equal(t, "", flow.Result.Link)
}

func TestReferrerFlow_badSchool(t *testing.T) {
	ctl := setup(t, &testutil.FakeClient{})

	flow := ctl.AddReferrer()
	flow.Input = workflow.NewReferrer{
		CodeName: "CHIDI",
		FullName: "Chidi Okonkwo",
		Phone:    "08012345678",
		School:   "OXFORD",
	}
	err := flow.Submit(context.Background())
	if !core.IsValidationError(err) {
		t.Fatalf("Submit() error = %v, want validation error", err)
	}
}
