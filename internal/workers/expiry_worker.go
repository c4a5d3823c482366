package workers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cubstechnical/cubs-ems/internal/mailer"
	"github.com/cubstechnical/cubs-ems/internal/models"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
)

// DefaultThresholds are the days-before-expiry marks that trigger an alert.
var DefaultThresholds = []int{60, 30, 15, 7, 1}

const sendAttempts = 3

// Locker is the slice of the Redis client the day-lock needs.
type Locker interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// ExpiryNotifier scans for employees whose visa expires exactly N days from
// today, one N per configured threshold, and emails the approved admins one
// grouped alert per threshold. Per-employee sent flags keep reruns silent.
type ExpiryNotifier struct {
	Employees     pgrepo.EmployeeRepository
	Profiles      pgrepo.ProfileRepository
	Logs          pgrepo.NotificationLogRepository
	Notifications pgrepo.NotificationRepository
	Mailer        mailer.Mailer

	Redis  Locker
	Logger *logrus.Logger

	Thresholds   []int
	Location     *time.Location
	RunHour      int // local hour of the daily run
	LockKey      string
	RetryBackoff time.Duration // base delay between send attempts
}

func (n *ExpiryNotifier) Start(ctx context.Context) error {
	if n.Employees == nil || n.Profiles == nil || n.Logs == nil || n.Mailer == nil {
		return errors.New("ExpiryNotifier missing dependency: Employees/Profiles/Logs/Mailer must be set")
	}
	if len(n.Thresholds) == 0 {
		n.Thresholds = DefaultThresholds
	}
	if n.Location == nil {
		n.Location = time.UTC
	}
	if n.RunHour <= 0 || n.RunHour > 23 {
		n.RunHour = 8
	}
	if n.LockKey == "" {
		n.LockKey = "notify:visa"
	}
	if n.RetryBackoff <= 0 {
		n.RetryBackoff = 2 * time.Second
	}
	if n.Logger == nil {
		n.Logger = logrus.New()
	}

	go n.loop(ctx)
	return nil
}

func (n *ExpiryNotifier) loop(ctx context.Context) {
	for {
		next := n.nextRun(time.Now().In(n.Location))
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := n.RunOnce(ctx, false); err != nil {
			n.Logger.WithError(err).Error("visa expiry run failed")
		}
	}
}

func (n *ExpiryNotifier) nextRun(now time.Time) time.Time {
	run := time.Date(now.Year(), now.Month(), now.Day(), n.RunHour, 0, 0, 0, n.Location)
	if !run.After(now) {
		run = run.AddDate(0, 0, 1)
	}
	return run
}

// RunOnce processes every threshold for today's date. When force is false a
// Redis day-lock keeps concurrent replicas from double-sending; the manual
// admin trigger passes force=true.
func (n *ExpiryNotifier) RunOnce(ctx context.Context, force bool) (int, error) {
	today := time.Now().In(n.Location)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, n.Location)

	if !force && n.Redis != nil {
		key := n.LockKey + ":" + today.Format("2006-01-02")
		ok, err := n.Redis.SetNX(ctx, key, "1", 24*time.Hour).Result()
		if err != nil {
			return 0, fmt.Errorf("acquire day lock: %w", err)
		}
		if !ok {
			n.Logger.WithField("date", today.Format("2006-01-02")).Info("visa expiry run already taken")
			return 0, nil
		}
	}

	admins, err := n.Profiles.ApprovedAdmins(ctx)
	if err != nil {
		return 0, fmt.Errorf("load admin recipients: %w", err)
	}
	if len(admins) == 0 {
		n.Logger.Warn("no approved admins to notify")
		return 0, nil
	}

	sent := 0
	for _, days := range n.Thresholds {
		count, err := n.processThreshold(ctx, today, days, admins)
		if err != nil {
			// keep going: one failed threshold must not starve the others
			n.Logger.WithError(err).WithField("threshold_days", days).Error("threshold failed")
			continue
		}
		sent += count
	}
	return sent, nil
}

func (n *ExpiryNotifier) processThreshold(ctx context.Context, today time.Time, days int, admins []models.Profile) (int, error) {
	flag := models.NotifiedFlagColumn(days)
	if flag == "" {
		return 0, fmt.Errorf("unsupported threshold %d", days)
	}

	target := today.AddDate(0, 0, days)
	rows, err := n.Employees.VisaExpiringOn(ctx, target, flag)
	if err != nil {
		return 0, fmt.Errorf("query expiring employees: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	log := n.Logger.WithFields(logrus.Fields{
		"threshold_days": days,
		"employees":      len(rows),
		"expiry_date":    target.Format("2006-01-02"),
	})

	recipients := make([]string, 0, len(admins))
	for _, a := range admins {
		recipients = append(recipients, a.Email)
	}

	subject, html, text := BuildExpiryEmail(days, target, rows)
	msg := &mailer.Message{To: recipients, Subject: subject, HTML: html, Text: text}

	var sendErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if sendErr = n.Mailer.Send(ctx, msg); sendErr == nil {
			break
		}
		log.WithError(sendErr).WithField("attempt", attempt).Warn("send failed")
		select {
		case <-ctx.Done():
			sendErr = ctx.Err()
			attempt = sendAttempts
		case <-time.After(time.Duration(attempt) * n.RetryBackoff):
		}
	}

	logRow := &models.NotificationLog{
		ID:            uuid.NewString(),
		ThresholdDays: days,
		EmployeeCount: len(rows),
		Recipients:    recipients,
		Subject:       subject,
		Status:        "sent",
		SentAt:        time.Now().UTC(),
	}
	if sendErr != nil {
		logRow.Status = "failed"
		logRow.Error = sendErr.Error()
		if err := n.Logs.Insert(ctx, logRow); err != nil {
			log.WithError(err).Warn("failed to write notification log")
		}
		return 0, fmt.Errorf("send alert email: %w", sendErr)
	}

	ids := make([]string, 0, len(rows))
	for _, e := range rows {
		ids = append(ids, e.ID)
	}
	if err := n.Employees.MarkNotified(ctx, ids, flag); err != nil {
		// flags failed to persist: the next run will resend, which beats
		// silently losing the alert
		log.WithError(err).Error("failed to mark notified flags")
	}
	if err := n.Logs.Insert(ctx, logRow); err != nil {
		log.WithError(err).Warn("failed to write notification log")
	}

	if n.Notifications != nil {
		inApp := make([]models.Notification, 0, len(admins))
		for _, a := range admins {
			inApp = append(inApp, models.Notification{
				ID:        uuid.NewString(),
				UserID:    a.UserID,
				Type:      "visa_expiry",
				Title:     subject,
				Body:      fmt.Sprintf("%d employee(s) have visas expiring in %d day(s).", len(rows), days),
				CreatedAt: time.Now().UTC(),
			})
		}
		if err := n.Notifications.InsertMany(ctx, inApp); err != nil {
			log.WithError(err).Warn("failed to write in-app notifications")
		}
	}

	log.Info("visa expiry alert sent")
	return len(rows), nil
}

var expiryTmpl = template.Must(template.New("expiry").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Visa Expiry Alert &mdash; {{.Days}} day(s) remaining</h2>
  <p>The following employees have visas expiring on <strong>{{.Date}}</strong>:</p>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr style="background: #f2f2f2;">
      <th>Employee ID</th><th>Name</th><th>Company</th><th>Trade</th><th>Visa Number</th>
    </tr>
    {{range .Employees}}
    <tr>
      <td>{{.EmployeeID}}</td><td>{{.Name}}</td><td>{{.CompanyName}}</td><td>{{.Trade}}</td><td>{{.VisaNumber}}</td>
    </tr>
    {{end}}
  </table>
  <p>Please start the renewal process.</p>
</body>
</html>`))

// BuildExpiryEmail renders one alert for everyone crossing the same threshold.
func BuildExpiryEmail(days int, expiryDate time.Time, employees []models.Employee) (subject, html, text string) {
	subject = fmt.Sprintf("Visa Expiry Alert: %d employee(s) expiring in %d day(s)", len(employees), days)

	var buf bytes.Buffer
	data := struct {
		Days      int
		Date      string
		Employees []models.Employee
	}{days, expiryDate.Format("02 Jan 2006"), employees}
	if err := expiryTmpl.Execute(&buf, data); err == nil {
		html = buf.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Visa expiry alert: %d day(s) remaining (expiry %s)\n\n", days, expiryDate.Format("02 Jan 2006"))
	for _, e := range employees {
		fmt.Fprintf(&sb, "- %s (%s), %s, %s, visa %s\n", e.Name, e.EmployeeID, e.CompanyName, e.Trade, e.VisaNumber)
	}
	text = sb.String()
	return subject, html, text
}
