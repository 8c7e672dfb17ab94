// Package crm covers the Holded CRM API: funnels, leads, events and bookings.
package crm

import (
	"context"

	"github.com/gaborage/go-holded/api/resource"
	"github.com/gaborage/go-holded/transport"
)

const basePath = "crm/v1"

// API groups the CRM services.
type API struct {
	Funnels  *resource.Service[Funnel]
	Leads    *Leads
	Events   *resource.Service[Event]
	Bookings *Bookings
}

// New binds the CRM API to r.
func New(r transport.Requester) *API {
	return &API{
		Funnels:  resource.NewService[Funnel](r, basePath+"/funnels"),
		Leads:    &Leads{resource.NewService[Lead](r, basePath+"/leads")},
		Events:   resource.NewService[Event](r, basePath+"/events"),
		Bookings: &Bookings{resource.NewService[Booking](r, basePath+"/bookings")},
	}
}

// Funnel is a sales pipeline.
type Funnel struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Stages []Stage `json:"stages,omitempty"`
	Labels []Label `json:"labels,omitempty"`
}

// Stage is a step of a funnel.
type Stage struct {
	StageID string `json:"stageId,omitempty"`
	Key     string `json:"key,omitempty"`
	Name    string `json:"name"`
	Desc    string `json:"desc,omitempty"`
}

// Label tags leads inside a funnel.
type Label struct {
	LabelID    string `json:"labelId,omitempty"`
	LabelName  string `json:"labelName"`
	LabelColor string `json:"labelColor,omitempty"`
}

// Lead is an opportunity moving through a funnel.
type Lead struct {
	ID          string  `json:"id,omitempty"`
	FunnelID    string  `json:"funnelId,omitempty"`
	StageID     string  `json:"stageId,omitempty"`
	ContactID   string  `json:"contactId,omitempty"`
	ContactName string  `json:"contactName,omitempty"`
	Name        string  `json:"name"`
	Value       float64 `json:"value,omitempty"`
	Potential   float64 `json:"potential,omitempty"`
	DueDate     int64   `json:"dueDate,omitempty"`
	Status      int     `json:"status,omitempty"`
}

// Note is a lead note.
type Note struct {
	NoteID string `json:"noteId,omitempty"`
	Title  string `json:"title"`
	Desc   string `json:"desc,omitempty"`
}

// Task is a lead task.
type Task struct {
	TaskID  string `json:"taskId,omitempty"`
	Name    string `json:"name"`
	DueDate int64  `json:"duedate,omitempty"`
	Done    bool   `json:"done,omitempty"`
}

// Event is a calendar event.
type Event struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc,omitempty"`
	ContactID string   `json:"contactId,omitempty"`
	LeadID    string   `json:"leadId,omitempty"`
	StartDate int64    `json:"startDate,omitempty"`
	Duration  int      `json:"duration,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Booking is an appointment at a location.
type Booking struct {
	ID         string         `json:"id,omitempty"`
	LocationID string         `json:"locationId"`
	ServiceID  string         `json:"serviceId,omitempty"`
	DateTime   int64          `json:"dateTime"`
	Timezone   string         `json:"timezone,omitempty"`
	Language   string         `json:"language,omitempty"`
	Status     string         `json:"status,omitempty"`
	Fields     []BookingField `json:"customFields,omitempty"`
}

// BookingField is a custom field of a booking form.
type BookingField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Location is a place bookings happen at.
type Location struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc,omitempty"`
	Available bool     `json:"available,omitempty"`
	Services  []string `json:"services,omitempty"`
}

// Slot is a bookable time window.
type Slot struct {
	From     int64 `json:"from"`
	To       int64 `json:"to"`
	Duration int   `json:"duration,omitempty"`
}

// Leads is the leads collection plus notes, tasks, dates and stages.
type Leads struct {
	*resource.Service[Lead]
}

// CreateNote adds a note to a lead.
func (l *Leads) CreateNote(ctx context.Context, leadID string, note Note) (*resource.Ack, error) {
	return resource.Create(ctx, l.Requester(), l.Path(leadID, "notes"), note)
}

// UpdateNote changes a lead note identified by note.NoteID.
func (l *Leads) UpdateNote(ctx context.Context, leadID string, note Note) (*resource.Ack, error) {
	return resource.Update(ctx, l.Requester(), l.Path(leadID, "notes"), note)
}

// CreateTask adds a task to a lead.
func (l *Leads) CreateTask(ctx context.Context, leadID string, task Task) (*resource.Ack, error) {
	return resource.Create(ctx, l.Requester(), l.Path(leadID, "tasks"), task)
}

// UpdateTask changes a lead task identified by task.TaskID.
func (l *Leads) UpdateTask(ctx context.Context, leadID string, task Task) (*resource.Ack, error) {
	return resource.Update(ctx, l.Requester(), l.Path(leadID, "tasks"), task)
}

// DeleteTask removes the lead's tasks.
func (l *Leads) DeleteTask(ctx context.Context, leadID string) (*resource.Ack, error) {
	return resource.Remove(ctx, l.Requester(), l.Path(leadID, "tasks"))
}

// UpdateDate changes the lead's creation date.
func (l *Leads) UpdateDate(ctx context.Context, leadID string, date int64) (*resource.Ack, error) {
	return resource.Update(ctx, l.Requester(), l.Path(leadID, "dates"), map[string]int64{"date": date})
}

// UpdateStage moves the lead to another stage.
func (l *Leads) UpdateStage(ctx context.Context, leadID, stageID string) (*resource.Ack, error) {
	return resource.Update(ctx, l.Requester(), l.Path(leadID, "stages"), map[string]string{"stageId": stageID})
}

// Bookings is the bookings collection plus locations and slots.
type Bookings struct {
	*resource.Service[Booking]
}

// Locations lists the booking locations.
func (b *Bookings) Locations(ctx context.Context) ([]Location, error) {
	return resource.List[Location](ctx, b.Requester(), b.Path("locations"), nil)
}

// Slots lists the free slots of a location.
func (b *Bookings) Slots(ctx context.Context, locationID string) ([]Slot, error) {
	return resource.List[Slot](ctx, b.Requester(), b.Path("locations", locationID, "slots"), nil)
}

// Cancel cancels a booking.
func (b *Bookings) Cancel(ctx context.Context, bookingID string) (*resource.Ack, error) {
	return b.Delete(ctx, bookingID)
}
