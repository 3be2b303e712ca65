package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Party identifies which side of an appointment an actor is on
type Party string

const (
	PartyDoctor  Party = "doctor"
	PartyPatient Party = "patient"
)

// Trigger names what caused a transition
type Trigger string

const (
	TriggerStatusRequest Trigger = "status_request"
	TriggerRoomOpened    Trigger = "room_opened"
	TriggerClosed        Trigger = "closed"
)

var (
	ErrNotParticipant    = errors.New("actor is neither the assigned doctor nor the assigned patient")
	ErrPartyNotPermitted = errors.New("party is not permitted to perform this transition")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown appointment status")
)

// InvalidTransitionError reports a status change that is not an edge of the
// lifecycle graph. Allowed lists the edges the requesting party could take.
type InvalidTransitionError struct {
	From    AppointmentStatus
	To      AppointmentStatus
	Allowed []AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
	}
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("invalid status transition from %s to %s (allowed: %s)", e.From, e.To, strings.Join(allowed, ", "))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type transitionRule struct {
	from    AppointmentStatus
	to      AppointmentStatus
	parties []Party
}

// Explicitly requestable edges. Room opening and closing have their own
// triggers below.
var transitionRules = []transitionRule{
	{AppointmentStatusPending, AppointmentStatusConfirmed, []Party{PartyDoctor}},
	{AppointmentStatusPending, AppointmentStatusCancelled, []Party{PartyDoctor}},
	{AppointmentStatusConfirmed, AppointmentStatusInProgress, []Party{PartyDoctor}},
	{AppointmentStatusConfirmed, AppointmentStatusCancelled, []Party{PartyDoctor}},
	{AppointmentStatusInProgress, AppointmentStatusCompleted, []Party{PartyDoctor, PartyPatient}},
}

// NotificationIntent is a notification the caller must persist once the
// transition that produced it has been committed.
type NotificationIntent struct {
	RecipientID uuid.UUID
	Category    NotificationCategory
	Title       string
	Message     string
	Link        string
}

// TransitionResult is the outcome of planning a transition. It carries no
// side effects itself; Changed=false means the stored status stays as is and
// Notifications is empty.
type TransitionResult struct {
	Trigger       Trigger
	ActorID       uuid.UUID
	ActorParty    Party
	From          AppointmentStatus
	To            AppointmentStatus
	Changed       bool
	Notifications []NotificationIntent
}

// PartyOf returns the side userID is assigned to on this appointment
func (a *Appointment) PartyOf(userID uuid.UUID) (Party, bool) {
	switch userID {
	case a.DoctorID:
		return PartyDoctor, true
	case a.PatientID:
		return PartyPatient, true
	}
	return "", false
}

// IsParticipant checks if userID is the assigned doctor or patient
func (a *Appointment) IsParticipant(userID uuid.UUID) bool {
	_, ok := a.PartyOf(userID)
	return ok
}

// AllowedTransitions lists the statuses party may request from the current status
func (a *Appointment) AllowedTransitions(party Party) []AppointmentStatus {
	var allowed []AppointmentStatus
	for _, rule := range transitionRules {
		if rule.from == a.Status && containsParty(rule.parties, party) {
			allowed = append(allowed, rule.to)
		}
	}
	return allowed
}

// RequestTransition plans an explicit status change requested by actor.
func (a *Appointment) RequestTransition(actorID uuid.UUID, to AppointmentStatus) (*TransitionResult, error) {
	if !to.IsKnown() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(to))
	}

	party, ok := a.PartyOf(actorID)
	if !ok {
		return nil, ErrNotParticipant
	}

	rule, found := findRule(a.Status, to)
	if !found {
		return nil, &InvalidTransitionError{From: a.Status, To: to, Allowed: a.AllowedTransitions(party)}
	}
	if !containsParty(rule.parties, party) {
		return nil, ErrPartyNotPermitted
	}

	return a.changedTo(TriggerStatusRequest, actorID, party, to), nil
}

// EnterInProgressOnFirstOpen plans the implicit transition fired when the
// first consultation session of the appointment is created. Either party may
// trigger it. It is a no-op when the appointment is already in progress.
func (a *Appointment) EnterInProgressOnFirstOpen(actorID uuid.UUID) (*TransitionResult, error) {
	party, ok := a.PartyOf(actorID)
	if !ok {
		return nil, ErrNotParticipant
	}

	switch a.Status {
	case AppointmentStatusInProgress:
		return a.unchanged(TriggerRoomOpened, actorID, party), nil
	case AppointmentStatusConfirmed:
		return a.changedTo(TriggerRoomOpened, actorID, party, AppointmentStatusInProgress), nil
	}

	return nil, &InvalidTransitionError{From: a.Status, To: AppointmentStatusInProgress}
}

// Close plans the end of the encounter by either party. Completion is
// honored from any non-terminal status; closing a completed appointment is a
// no-op and closing a cancelled one is invalid.
func (a *Appointment) Close(actorID uuid.UUID) (*TransitionResult, error) {
	party, ok := a.PartyOf(actorID)
	if !ok {
		return nil, ErrNotParticipant
	}

	switch a.Status {
	case AppointmentStatusCompleted:
		return a.unchanged(TriggerClosed, actorID, party), nil
	case AppointmentStatusCancelled:
		return nil, &InvalidTransitionError{From: a.Status, To: AppointmentStatusCompleted}
	}

	return a.changedTo(TriggerClosed, actorID, party, AppointmentStatusCompleted), nil
}

// Apply moves the in-memory status to the planned target
func (a *Appointment) Apply(result *TransitionResult) {
	if result != nil && result.Changed {
		a.Status = result.To
	}
}

// BookingRequestIntent is the notification the doctor receives when a
// patient books this appointment.
func (a *Appointment) BookingRequestIntent(patientName string) NotificationIntent {
	return NotificationIntent{
		RecipientID: a.DoctorID,
		Category:    NotificationCategoryAppointment,
		Title:       "New Appointment Request",
		Message:     fmt.Sprintf("%s has requested an appointment (%s).", patientName, a.BookingID),
		Link:        a.linkFor(PartyDoctor),
	}
}

// ReminderIntent is a reminder from the assigned doctor to the patient.
func (a *Appointment) ReminderIntent(actorID uuid.UUID, message string) (NotificationIntent, error) {
	party, ok := a.PartyOf(actorID)
	if !ok {
		return NotificationIntent{}, ErrNotParticipant
	}
	if party != PartyDoctor {
		return NotificationIntent{}, ErrPartyNotPermitted
	}
	if a.IsTerminal() {
		return NotificationIntent{}, &InvalidTransitionError{From: a.Status, To: a.Status}
	}

	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Reminder: your appointment (%s) is scheduled for %s at %s.",
			a.BookingID, a.ScheduledDate.Format("2006-01-02"), a.ScheduledTime)
	}

	return NotificationIntent{
		RecipientID: a.PatientID,
		Category:    NotificationCategoryReminder,
		Title:       "Appointment Reminder",
		Message:     message,
		Link:        a.linkFor(PartyPatient),
	}, nil
}

func (a *Appointment) changedTo(trigger Trigger, actorID uuid.UUID, party Party, to AppointmentStatus) *TransitionResult {
	return &TransitionResult{
		Trigger:       trigger,
		ActorID:       actorID,
		ActorParty:    party,
		From:          a.Status,
		To:            to,
		Changed:       true,
		Notifications: []NotificationIntent{a.statusUpdateIntent(party, to)},
	}
}

func (a *Appointment) unchanged(trigger Trigger, actorID uuid.UUID, party Party) *TransitionResult {
	return &TransitionResult{
		Trigger:    trigger,
		ActorID:    actorID,
		ActorParty: party,
		From:       a.Status,
		To:         a.Status,
	}
}

// statusUpdateIntent addresses the party that did not initiate the change
func (a *Appointment) statusUpdateIntent(initiator Party, to AppointmentStatus) NotificationIntent {
	if initiator == PartyDoctor {
		return NotificationIntent{
			RecipientID: a.PatientID,
			Category:    NotificationCategoryAppointment,
			Title:       "Appointment Update",
			Message:     fmt.Sprintf("Your appointment (%s) has been updated to %s.", a.BookingID, to),
			Link:        a.linkFor(PartyPatient),
		}
	}

	return NotificationIntent{
		RecipientID: a.DoctorID,
		Category:    NotificationCategoryAppointment,
		Title:       "Appointment Update",
		Message:     fmt.Sprintf("Appointment (%s) has been updated to %s by the patient.", a.BookingID, to),
		Link:        a.linkFor(PartyDoctor),
	}
}

func (a *Appointment) linkFor(party Party) string {
	if party == PartyDoctor {
		return fmt.Sprintf("/doctor/appointments/%s/", a.BookingID)
	}
	return "/patient/appointments/"
}

func findRule(from, to AppointmentStatus) (transitionRule, bool) {
	for _, rule := range transitionRules {
		if rule.from == from && rule.to == to {
			return rule, true
		}
	}
	return transitionRule{}, false
}

func containsParty(parties []Party, party Party) bool {
	for _, p := range parties {
		if p == party {
			return true
		}
	}
	return false
}
