// Package notify queues member emails in redis and delivers them over SMTP
// from a background worker.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "emails"
	failedKey = "emails:failed"

	maxTries = 3
)

const (
	TypeSubscriptionCancelled = "subscription_cancelled"
	TypeBookingConfirmed      = "booking_confirmed"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Options struct {
	From      string
	FromName  string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	RedisAddr string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Service struct {
	redis      *redis.Client
	opts       Options
	send       sendFunc
	retryDelay time.Duration
	now        func() time.Time
}

func New(opts Options) *Service {
	return newService(redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), opts)
}

func newService(rdb *redis.Client, opts Options) *Service {
	return &Service{
		redis:      rdb,
		opts:       opts,
		send:       smtp.SendMail,
		retryDelay: 5 * time.Second,
		now:        time.Now,
	}
}

// Enqueue pushes a message onto the delivery queue.
func (s *Service) Enqueue(ctx context.Context, emailType, to, name, subject, body string) error {
	job := Job{
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: s.now().UTC(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail(emailType, "queue_failed")
		return fmt.Errorf("queueing email: %w", err)
	}

	metrics.RecordEmail(emailType, "queued")
	logger.Info("email queued", "type", emailType, "to", to)
	return nil
}

// Start runs the delivery worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("email queue read failed", "error", err.Error())
		}
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err.Error())
		return
	}
	s.deliver(ctx, job)
}

func (s *Service) deliver(ctx context.Context, job Job) {
	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Warn("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err.Error())

		if job.Tries < maxTries {
			s.requeue(ctx, job)
			return
		}
		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(ctx, job, err)
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "type", job.Type, "to", job.To)
}

func (s *Service) requeue(ctx context.Context, job Job) {
	if s.retryDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(s.retryDelay):
		}
	}
	data, _ := json.Marshal(job)
	// Requeue with a fresh context so a shutdown does not lose the job.
	if err := s.redis.LPush(context.Background(), queueKey, string(data)).Err(); err != nil {
		logger.Error("email requeue failed", "to", job.To, "error", err.Error())
	}
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.opts.FromName, s.opts.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.opts.SMTPUser != "" && s.opts.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.opts.SMTPUser, s.opts.SMTPPass, s.opts.SMTPHost)
	}

	addr := s.opts.SMTPHost + ":" + s.opts.SMTPPort
	return s.send(addr, auth, s.opts.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  s.now().UTC(),
	}
	data, _ := json.Marshal(failed)
	if pushErr := s.redis.LPush(context.WithoutCancel(ctx), failedKey, string(data)).Err(); pushErr != nil {
		logger.Error("saving failed email", "to", job.To, "error", pushErr.Error())
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "tries", job.Tries)
}

// QueueLength reports the pending queue size and mirrors it into the
// queue gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}
