package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/pkg/db"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
)

const timeOfDayLayout = "15:04"

const (
	DateStatusAvailable = "available"
	DateStatusClosed    = "closed"
)

// Policy is the single ordering policy in effect for one calendar date.
type Policy struct {
	// ScheduleID is nil when no schedule row exists and the built-in default applies.
	ScheduleID      *uuid.UUID
	WeekendEnabled  bool
	MaxOrdersPerDay *int
	// Start and End are minutes after midnight.
	Start *int
	End   *int
}

// DefaultPolicy applies when no schedule has been configured.
func DefaultPolicy() Policy {
	return Policy{WeekendEnabled: true}
}

func policyFromSchedule(s *models.OrderSchedule) (Policy, error) {
	id := s.ID
	p := Policy{
		ScheduleID:      &id,
		WeekendEnabled:  s.IsWeekendEnabled,
		MaxOrdersPerDay: s.MaxOrdersPerDay,
	}
	var err error
	if p.Start, err = parseTimeOfDay(s.OrderStartTime); err != nil {
		return Policy{}, err
	}
	if p.End, err = parseTimeOfDay(s.OrderEndTime); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func parseTimeOfDay(v *string) (*int, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(timeOfDayLayout, *v)
	if err != nil {
		return nil, fmt.Errorf("%w: time of day %q must be HH:MM", ErrValidation, *v)
	}
	m := t.Hour()*60 + t.Minute()
	return &m, nil
}

func parseDate(v string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrValidation, v)
	}
	return d, nil
}

// CheckWindow reports whether an order for date may be placed at now.
// Dates are compared in now's location; today is still open.
func (p Policy) CheckWindow(now time.Time, date string) error {
	d, err := parseDate(date)
	if err != nil {
		return err
	}
	if date < dateOf(now) {
		return fmt.Errorf("%w: %s is in the past", ErrOrderingWindowClosed, date)
	}
	if wd := d.Weekday(); !p.WeekendEnabled && (wd == time.Saturday || wd == time.Sunday) {
		return fmt.Errorf("%w: ordering is closed on weekends", ErrOrderingWindowClosed)
	}

	if p.Start == nil && p.End == nil {
		return nil
	}
	minute := now.Hour()*60 + now.Minute()
	var open bool
	switch {
	case p.Start == nil:
		open = minute < *p.End
	case p.End == nil:
		open = minute >= *p.Start
	case *p.Start <= *p.End:
		open = minute >= *p.Start && minute < *p.End
	default:
		open = minute >= *p.Start || minute < *p.End
	}
	if !open {
		return fmt.Errorf("%w: orders are accepted between %s and %s", ErrOrderingWindowClosed, formatMinute(p.Start), formatMinute(p.End))
	}
	return nil
}

func formatMinute(m *int) string {
	if m == nil {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", *m/60, *m%60)
}

type ScheduleService struct {
	Repo  *repo.GormRepo
	Clock Clock
}

type DateStatus struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ResolvePolicy maps date to its effective policy: the per-date override,
// else the latest global schedule, else DefaultPolicy.
func (s *ScheduleService) ResolvePolicy(ctx context.Context, date string) (Policy, error) {
	return resolvePolicy(ctx, s.Repo, date)
}

func resolvePolicy(ctx context.Context, r *repo.GormRepo, date string) (Policy, error) {
	sched, err := r.ScheduleForDate(ctx, date)
	if err != nil {
		return Policy{}, persistenceErr("resolve schedule", err)
	}
	if sched == nil {
		return DefaultPolicy(), nil
	}
	return policyFromSchedule(sched)
}

// DateStatus summarises whether date can be picked for a new order right now.
// An empty date means tomorrow.
func (s *ScheduleService) DateStatus(ctx context.Context, date string) (DateStatus, error) {
	now := s.Clock.Now()
	if date == "" {
		date = dateOf(now.AddDate(0, 0, 1))
	}
	if _, err := parseDate(date); err != nil {
		return DateStatus{}, err
	}

	policy, err := s.ResolvePolicy(ctx, date)
	if err != nil {
		return DateStatus{}, err
	}
	if err := policy.CheckWindow(now, date); err != nil {
		return DateStatus{Date: date, Status: DateStatusClosed, Message: closedMessage(err)}, nil
	}

	if policy.MaxOrdersPerDay != nil {
		n, err := s.Repo.CountActiveOrders(ctx, date)
		if err != nil {
			return DateStatus{}, persistenceErr("count orders", err)
		}
		if n >= int64(*policy.MaxOrdersPerDay) {
			return DateStatus{Date: date, Status: DateStatusClosed, Message: "daily order limit reached"}, nil
		}
	}
	return DateStatus{Date: date, Status: DateStatusAvailable, Message: "available"}, nil
}

func closedMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrOrderingWindowClosed.Error()+": ")
}

func (s *ScheduleService) ListSchedules(ctx context.Context) ([]models.OrderSchedule, error) {
	out, err := s.Repo.ListSchedules(ctx)
	if err != nil {
		return nil, persistenceErr("list schedules", err)
	}
	return out, nil
}

func validateSchedule(req transport.ScheduleRequest) error {
	if req.ScheduleDate != nil && *req.ScheduleDate != "" {
		if _, err := parseDate(*req.ScheduleDate); err != nil {
			return err
		}
	}
	if req.MaxOrdersPerDay != nil && *req.MaxOrdersPerDay < 0 {
		return fmt.Errorf("%w: max_orders_per_day must be >= 0", ErrValidation)
	}
	start, err := parseTimeOfDay(req.OrderStartTime)
	if err != nil {
		return err
	}
	end, err := parseTimeOfDay(req.OrderEndTime)
	if err != nil {
		return err
	}
	if start != nil && end != nil && *start == *end {
		return fmt.Errorf("%w: order_start_time and order_end_time must differ", ErrValidation)
	}
	return nil
}

func applySchedule(dst *models.OrderSchedule, req transport.ScheduleRequest) {
	dst.ScheduleDate = nil
	if req.ScheduleDate != nil && *req.ScheduleDate != "" {
		d := *req.ScheduleDate
		dst.ScheduleDate = &d
	}
	dst.IsWeekendEnabled = req.IsWeekendEnabled
	dst.MaxOrdersPerDay = req.MaxOrdersPerDay
	dst.OrderStartTime = emptyToNil(req.OrderStartTime)
	dst.OrderEndTime = emptyToNil(req.OrderEndTime)
}

func emptyToNil(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, req transport.ScheduleRequest) (*models.OrderSchedule, error) {
	if err := validateSchedule(req); err != nil {
		return nil, err
	}

	var sched models.OrderSchedule
	applySchedule(&sched, req)
	if err := s.Repo.CreateSchedule(ctx, &sched); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a schedule for %s already exists", ErrConflict, *sched.ScheduleDate)
		}
		return nil, persistenceErr("create schedule", err)
	}

	logging.FromContext(ctx).Info("schedule_created", "svc", "schedule", "schedule_id", sched.ID)
	return &sched, nil
}

func (s *ScheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, req transport.ScheduleRequest) (*models.OrderSchedule, error) {
	if err := validateSchedule(req); err != nil {
		return nil, err
	}

	sched, err := s.Repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, storeErr("get schedule", err)
	}
	applySchedule(sched, req)
	if err := s.Repo.SaveSchedule(ctx, sched); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a schedule for %s already exists", ErrConflict, *sched.ScheduleDate)
		}
		return nil, persistenceErr("update schedule", err)
	}
	return sched, nil
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteSchedule(ctx, id); err != nil {
		return storeErr("delete schedule", err)
	}
	return nil
}
