// Package receipt delivers transactional emails (welcome mail, purchase
// receipts) through a Redis-backed queue so the request path never waits on
// SMTP. Delivery is best-effort: enqueue failures are logged and swallowed
// by callers.
package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Minister-Isaac/Vtu-Backend/internal/logger"
	"github.com/Minister-Isaac/Vtu-Backend/internal/metrics"
)

const (
	queueKey      = "receipts"
	deadLetterKey = "receipts:failed"
	maxTries      = 3
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

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal receipt job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue %s email to %s: %v", job.Type, job.To, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", job.Subject, job.To)
	return nil
}

func (s *Service) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account has been created. Fund your wallet to start buying data, airtime, electricity and cable subscriptions.\n",
		name,
	)
	return s.enqueue(ctx, Job{
		Type:    "welcome",
		To:      to,
		Name:    name,
		Subject: "Welcome aboard",
		Body:    body,
	})
}

func (s *Service) SendPurchaseReceipt(ctx context.Context, to, name, productType string, amount int64, reference string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s purchase was successful.\nAmount: %d\nReference: %s\n\nThank you for using our service.\n",
		name, productType, amount, reference,
	)
	return s.enqueue(ctx, Job{
		Type:    "purchase",
		To:      to,
		Name:    name,
		Subject: fmt.Sprintf("Purchase receipt: %s", productType),
		Body:    body,
	})
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	return length
}

// Start runs the delivery loop until the context is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Receipt service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Receipt service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		// redis.Nil is just an empty queue after the blocking window. A
		// real error usually means Redis is unreachable; back off so the
		// loop does not spin against a dead connection.
		if err != redis.Nil && ctx.Err() == nil {
			time.Sleep(time.Second)
		}
		return
	}

	metrics.ReceiptQueueLength.Set(float64(s.QueueLength(ctx)))

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad receipt job data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send %s email to %s: %v", job.Type, job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			metrics.RecordReceipt(job.Type, "failed")
			s.parkFailed(job)
		}
		return
	}

	metrics.RecordReceipt(job.Type, "success")
	logger.Infof("Email sent successfully to %s", job.To)
}

func (s *Service) sendNow(job Job) error {
	if s.smtpHost == "" {
		// SMTP not configured; drop the message after logging it.
		logger.Debugf("SMTP disabled, dropping %s email to %s", job.Type, job.To)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.fromName, s.from, job.To, job.Subject, job.Body,
	)

	addr := s.smtpHost + ":" + s.smtpPort
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(msg))
}

func (s *Service) parkFailed(job Job) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := s.redis.LPush(context.Background(), deadLetterKey, data).Err(); err != nil {
		logger.Errorf("Failed to park dead receipt job: %v", err)
	}
}
