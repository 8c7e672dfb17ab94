// Package projects covers the Holded Projects API: projects, tasks and
// project time tracking.
package projects

import (
	"context"

	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/transport"
)

const basePath = "projects/v1"

// API groups the Projects services.
type API struct {
	Projects *Projects
	Tasks    *Tasks
	Times    *Times
}

// New binds the Projects API to r.
func New(r transport.Requester) *API {
	return &API{
		Projects: &Projects{resource.NewService[Project](r, basePath+"/projects")},
		Tasks:    &Tasks{svc: resource.NewService[Task](r, basePath+"/tasks")},
		Times:    &Times{r: r, path: basePath + "/projects"},
	}
}

// Project is a tracked project.
type Project struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Category  int      `json:"category,omitempty"`
	ContactID string   `json:"contactId,omitempty"`
	Status    string   `json:"status,omitempty"`
	StartDate int64    `json:"startDate,omitempty"`
	DueDate   int64    `json:"dueDate,omitempty"`
	Budget    float64  `json:"budget,omitempty"`
}

// Summary is the financial summary of a project.
type Summary struct {
	Name     string         `json:"name,omitempty"`
	Desc     string         `json:"desc,omitempty"`
	Profit   float64        `json:"profitability,omitempty"`
	Economic map[string]any `json:"economic,omitempty"`
	Expenses map[string]any `json:"expenses,omitempty"`
	Incomes  map[string]any `json:"incomes,omitempty"`
}

// Task is a project task.
type Task struct {
	ID        string `json:"id,omitempty"`
	ProjectID string `json:"projectId"`
	ListID    string `json:"listId,omitempty"`
	Name      string `json:"name"`
	Desc      string `json:"desc,omitempty"`
	Status    int    `json:"status,omitempty"`
	DueDate   int64  `json:"dueDate,omitempty"`
}

// TimeEntry is a tracked amount of time on a project.
type TimeEntry struct {
	TimeID    string  `json:"timeId,omitempty"`
	ProjectID string  `json:"projectId,omitempty"`
	UserID    string  `json:"userId,omitempty"`
	Duration  int     `json:"duration"`
	Desc      string  `json:"desc,omitempty"`
	CostHour  float64 `json:"costHour,omitempty"`
	StartTmp  int64   `json:"startTmp,omitempty"`
	EndTmp    int64   `json:"endTmp,omitempty"`
	TaskID    string  `json:"taskId,omitempty"`
}

// Projects is the projects collection plus summaries.
type Projects struct {
	*resource.Service[Project]
}

// Summary fetches a project's financial summary.
func (p *Projects) Summary(ctx context.Context, projectID string) (*Summary, error) {
	return resource.Get[Summary](ctx, p.Requester(), p.Path(projectID, "summary"), nil)
}

// Tasks manages project tasks. Holded does not support updating them.
type Tasks struct {
	svc *resource.Service[Task]
}

// List returns every task.
func (t *Tasks) List(ctx context.Context) ([]Task, error) {
	return t.svc.List(ctx, nil)
}

// Get fetches one task.
func (t *Tasks) Get(ctx context.Context, id string) (*Task, error) {
	return t.svc.Get(ctx, id)
}

// Create adds a task.
func (t *Tasks) Create(ctx context.Context, task Task) (*resource.Ack, error) {
	return t.svc.Create(ctx, task)
}

// Delete removes a task.
func (t *Tasks) Delete(ctx context.Context, id string) (*resource.Ack, error) {
	return t.svc.Delete(ctx, id)
}

// Times manages time entries, which live under their project.
type Times struct {
	r    transport.Requester
	path string
}

// All lists the time entries of every project.
func (t *Times) All(ctx context.Context) ([]TimeEntry, error) {
	return resource.List[TimeEntry](ctx, t.r, resource.Join(t.path, "times"), nil)
}

// List returns the time entries of a project.
func (t *Times) List(ctx context.Context, projectID string) ([]TimeEntry, error) {
	return resource.List[TimeEntry](ctx, t.r, resource.Join(t.path, projectID, "times"), nil)
}

// Get fetches one time entry.
func (t *Times) Get(ctx context.Context, projectID, timeID string) (*TimeEntry, error) {
	return resource.Get[TimeEntry](ctx, t.r, resource.Join(t.path, projectID, "times", timeID), nil)
}

// Create records time on a project.
func (t *Times) Create(ctx context.Context, projectID string, entry TimeEntry) (*resource.Ack, error) {
	return resource.Create(ctx, t.r, resource.Join(t.path, projectID, "times"), entry)
}

// Update changes a time entry.
func (t *Times) Update(ctx context.Context, projectID, timeID string, entry TimeEntry) (*resource.Ack, error) {
	return resource.Update(ctx, t.r, resource.Join(t.path, projectID, "times", timeID), entry)
}

// Delete removes a time entry.
func (t *Times) Delete(ctx context.Context, projectID, timeID string) (*resource.Ack, error) {
	return resource.Remove(ctx, t.r, resource.Join(t.path, projectID, "times", timeID))
}
