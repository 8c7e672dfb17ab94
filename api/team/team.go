// Package team covers the Holded Team API: employees and their time
// tracking, including clocking in and out.
package team

import (
	"context"

	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/transport"
)

const basePath = "team/v1/employees"

// API groups the Team services.
type API struct {
	Employees *Employees
	Times     *Times
}

// New binds the Team API to r.
func New(r transport.Requester) *API {
	return &API{
		Employees: &Employees{resource.NewService[Employee](r, basePath)},
		Times:     &Times{r: r, path: basePath},
	}
}

// Employee is a team member.
type Employee struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	MainEmail string `json:"mainEmail,omitempty"`
	Code      string `json:"code,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Phone     string `json:"phone,omitempty"`
	BirthDate int64  `json:"birthDate,omitempty"`
}

// TimeEntry is a worked period of an employee.
type TimeEntry struct {
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
	StartTmp   int64  `json:"startTmp,omitempty"`
	EndTmp     int64  `json:"endTmp,omitempty"`
	Status     string `json:"status,omitempty"`
	Desc       string `json:"desc,omitempty"`
}

// Employees is the employees collection.
type Employees struct {
	*resource.Service[Employee]
}

// Page lists one page of employees.
func (e *Employees) Page(ctx context.Context, page int) ([]Employee, error) {
	return e.List(ctx, resource.Paging{Page: page})
}

// Times manages employee time tracking.
type Times struct {
	r    transport.Requester
	path string
}

// All lists the time entries of every employee, one page at a time.
func (t *Times) All(ctx context.Context, page int) ([]TimeEntry, error) {
	return resource.List[TimeEntry](ctx, t.r, resource.Join(t.path, "times"), resource.Paging{Page: page})
}

// List returns the time entries of an employee.
func (t *Times) List(ctx context.Context, employeeID string) ([]TimeEntry, error) {
	return resource.List[TimeEntry](ctx, t.r, resource.Join(t.path, employeeID, "times"), nil)
}

// Create records worked time for an employee.
func (t *Times) Create(ctx context.Context, employeeID string, entry TimeEntry) (*resource.Ack, error) {
	return resource.Create(ctx, t.r, resource.Join(t.path, employeeID, "times"), entry)
}

// Get fetches one time entry.
func (t *Times) Get(ctx context.Context, timeID string) (*TimeEntry, error) {
	return resource.Get[TimeEntry](ctx, t.r, resource.Join(t.path, "times", timeID), nil)
}

// Update changes a time entry.
func (t *Times) Update(ctx context.Context, timeID string, entry TimeEntry) (*resource.Ack, error) {
	return resource.Update(ctx, t.r, resource.Join(t.path, "times", timeID), entry)
}

// Delete removes a time entry.
func (t *Times) Delete(ctx context.Context, timeID string) (*resource.Ack, error) {
	return resource.Remove(ctx, t.r, resource.Join(t.path, "times", timeID))
}

// ClockIn starts the employee's working period.
func (t *Times) ClockIn(ctx context.Context, employeeID string) (*resource.Ack, error) {
	return t.clock(ctx, employeeID, "clock-in")
}

// ClockOut ends the employee's working period.
func (t *Times) ClockOut(ctx context.Context, employeeID string) (*resource.Ack, error) {
	return t.clock(ctx, employeeID, "clock-out")
}

// Pause pauses the running period.
func (t *Times) Pause(ctx context.Context, employeeID string) (*resource.Ack, error) {
	return t.clock(ctx, employeeID, "pause")
}

// Unpause resumes a paused period.
func (t *Times) Unpause(ctx context.Context, employeeID string) (*resource.Ack, error) {
	return t.clock(ctx, employeeID, "unpause")
}

func (t *Times) clock(ctx context.Context, employeeID, action string) (*resource.Ack, error) {
	return resource.Create(ctx, t.r, resource.Join(t.path, employeeID, action), nil)
}
