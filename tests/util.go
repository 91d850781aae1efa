package testutil

import (
	"context"
	"sync"

	"github.com/trysabi/sabi-admin/core"
	"github.com/trysabi/sabi-admin/core/catalog"
)

func MakeStudent(code, name, school, createdAt string) catalog.Student {
	return catalog.Student{
		Code:       code,
		Name:       name,
		Phone:      "08012345678",
		School:     school,
		Department: "Computer Science",
		Interest1:  "Football",
		Interest2:  "Cooking",
		CreatedAt:  createdAt,
	}
}

func MakeLesson(studentCode, subject string) catalog.Lesson {
	return catalog.Lesson{
		StudentCode: studentCode,
		Subject:     subject,
		FolderPath:  "FLAME-" + subject,
		DeliveredAt: "2024-02-01",
	}
}

func MakePayment(studentCode string, amount float64) catalog.Payment {
	return catalog.Payment{
		StudentCode: studentCode,
		Amount:      amount,
		PaidAt:      "2024-02-02",
	}
}

func MakeReferrer(codeName string, totalPaidOut float64) catalog.Referrer {
	return catalog.Referrer{
		CodeName:     codeName,
		FullName:     "Chidi Okonkwo",
		Phone:        "08012345678",
		School:       catalog.SchoolATBU,
		TotalPaidOut: totalPaidOut,
	}
}

// FakeClient is a scriptable catalog.Client. Call counts let tests assert
// that local validation failures never reach the network.
type FakeClient struct {
	mu sync.Mutex

	AcceptCode string // when set, any other admin code is rejected

	Snap      catalog.Snapshot
	SnapQueue []catalog.Snapshot // successive LoadAll responses, before falling back to Snap

	VerifyErr error
	LoadErr   error
	MutateErr error

	MutateResult catalog.MutationResult

	VerifyCalls int
	LoadCalls   int
	MutateCalls int
	LastAction  catalog.Action
	LastPayload interface{}

	// LoadHook runs inside LoadAll before the response is produced; used to
	// interleave overlapping reloads.
	LoadHook func(call int)
}

var _ catalog.Client = (*FakeClient)(nil)

func (c *FakeClient) Verify(_ context.Context, adminCode string) (catalog.Stats, error) {
	c.mu.Lock()
	c.VerifyCalls++
	c.mu.Unlock()

	if c.VerifyErr != nil {
		return catalog.Stats{}, c.VerifyErr
	}
	if c.AcceptCode != "" && adminCode != c.AcceptCode {
		return catalog.Stats{}, core.ErrCredentialRejected
	}
	return catalog.Stats{Students: len(c.Snap.Students), Lessons: len(c.Snap.Lessons)}, nil
}

func (c *FakeClient) LoadAll(_ context.Context, adminCode string) (catalog.Snapshot, error) {
	c.mu.Lock()
	c.LoadCalls++
	call := c.LoadCalls
	hook := c.LoadHook
	c.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if c.LoadErr != nil {
		return catalog.Snapshot{}, c.LoadErr
	}
	if c.AcceptCode != "" && adminCode != c.AcceptCode {
		return catalog.Snapshot{}, core.ErrCredentialRejected
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.SnapQueue) > 0 {
		snap := c.SnapQueue[0]
		c.SnapQueue = c.SnapQueue[1:]
		return snap, nil
	}
	return c.Snap, nil
}

func (c *FakeClient) Mutate(_ context.Context, action catalog.Action, payload interface{}, adminCode string) (catalog.MutationResult, error) {
	c.mu.Lock()
	c.MutateCalls++
	c.LastAction = action
	c.LastPayload = payload
	c.mu.Unlock()

	if c.MutateErr != nil {
		return catalog.MutationResult{}, c.MutateErr
	}
	return c.MutateResult, nil
}
