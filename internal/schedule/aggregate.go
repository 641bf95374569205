package schedule

import (
	"context"

	"github.com/example/booking-mcp/internal/config"
	"github.com/example/booking-mcp/internal/database"
)

// AggregationService retrieves confirmed bookings intersecting a window and
// aggregates them per calendar. Only the calendars in the configured
// allow-list are visible.
type AggregationService struct {
	db        *database.DB
	calendars config.Calendars
}

// NewAggregationService creates an AggregationService for the given
// calendar allow-list.
func NewAggregationService(db *database.DB, calendars config.Calendars) *AggregationService {
	return &AggregationService{db: db, calendars: calendars}
}

// BookingsReport is the aggregate report over a window.
type BookingsReport struct {
	Period  BookingsPeriod            `json:"periodo"`
	Summary BookingsSummary           `json:"riepilogo"`
	Groups  map[string]*CalendarGroup `json:"risorse"`
}

// BookingsPeriod echoes the requested window.
type BookingsPeriod struct {
	Start      string  `json:"inizio"`
	End        string  `json:"fine"`
	TotalHours float64 `json:"durata_totale_ore"`
}

// BookingsSummary carries the global totals. Hours are summed across all
// events, not deduplicated across calendars.
type BookingsSummary struct {
	Calendars   int     `json:"risorse_impegnate"`
	TotalEvents int     `json:"eventi_totali"`
	TotalHours  float64 `json:"ore_totali"`
}

// CalendarGroup collects the events of one calendar, in start-time order.
type CalendarGroup struct {
	CalendarName string         `json:"nome_calendario"`
	Events       []BookingEvent `json:"eventi"`
	TotalHours   float64        `json:"ore_totali"`
}

// BookingEvent describes one confirmed booking.
type BookingEvent struct {
	Title     string  `json:"evento"`
	ID        int64   `json:"id_evento"`
	Start     string  `json:"inizio"`
	End       string  `json:"fine"`
	Hours     float64 `json:"durata_ore"`
	Resources string  `json:"risorse_impegnate"`
}

// ActiveBookings returns all confirmed bookings whose interval strictly
// overlaps the window, grouped by calendar code. Events are ordered by
// calendar display name, then start time. Per-event and per-group hour
// figures are rounded to one decimal independently.
func (s *AggregationService) ActiveBookings(ctx context.Context, w Window) (*BookingsReport, error) {
	const op = "activeBookings"

	codes := s.calendars.Codes
	query := `
		SELECT
			T1.tetitle,
			T1.tetaskid,
			T2.cacodcal,
			T2.cadescri,
			T1.telisris,
			T1.teprevbegin,
			T1.teprevend
		FROM tasks T1
		JOIN calendar T2 ON T1.tecodcal = T2.cacodcal
		WHERE T1.teprevbegin < ?
			AND T1.teprevend > ?
			AND T1.testato = 'C'
			AND T2.cacodcal IN (` + database.Placeholders(len(codes)) + `)
		ORDER BY T2.cadescri, T1.teprevbegin`

	args := make([]any, 0, len(codes)+2)
	args = append(args, w.EndString(), w.StartString())
	for _, code := range codes {
		args = append(args, code)
	}

	ctx, cancel := s.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dataAccess(op, err)
	}
	defer rows.Close()

	report := &BookingsReport{
		Period: BookingsPeriod{
			Start:      w.StartString(),
			End:        w.EndString(),
			TotalHours: w.Hours(),
		},
		Groups: map[string]*CalendarGroup{},
	}

	// Running totals stay unrounded until the end; only the per-event
	// figure is rounded as it is emitted.
	groupHours := map[string]float64{}
	var totalHours float64

	for rows.Next() {
		var (
			title        string
			taskID       int64
			calendarCode string
			calendarName string
			resources    string
			begin, end   Timestamp
		)
		if err := rows.Scan(&title, &taskID, &calendarCode, &calendarName, &resources, &begin, &end); err != nil {
			return nil, dataAccess(op, err)
		}

		group, ok := report.Groups[calendarCode]
		if !ok {
			group = &CalendarGroup{CalendarName: calendarName, Events: []BookingEvent{}}
			report.Groups[calendarCode] = group
		}

		hours := end.Sub(begin.Time).Hours()
		group.Events = append(group.Events, BookingEvent{
			Title:     title,
			ID:        taskID,
			Start:     begin.String(),
			End:       end.String(),
			Hours:     RoundHours(hours),
			Resources: resources,
		})

		groupHours[calendarCode] += hours
		totalHours += hours
		report.Summary.TotalEvents++
	}
	if err := rows.Err(); err != nil {
		return nil, dataAccess(op, err)
	}

	for code, group := range report.Groups {
		group.TotalHours = RoundHours(groupHours[code])
	}
	report.Summary.Calendars = len(report.Groups)
	report.Summary.TotalHours = RoundHours(totalHours)

	return report, nil
}
