// Package printer hands staged service cards to the host print facility.
// Printing is fire-and-forget: callers never wait for paper to come out.
package printer

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/models"
)

// Job is one print request for a service card.
type Job struct {
	SessionID   string               `json:"session_id"`
	Record      models.ServiceRecord `json:"record"`
	RequestedAt time.Time            `json:"requested_at"`
}

// Printer triggers printing of a job.
type Printer interface {
	Print(ctx context.Context, job Job) error
}

// LogPrinter only logs jobs. It is used when no print station is configured.
type LogPrinter struct{}

// Print logs the job.
func (LogPrinter) Print(_ context.Context, job Job) error {
	log.WithFields(log.Fields{
		"session_id": job.SessionID,
		"record_id":  job.Record.ID,
		"car_model":  job.Record.CarModel,
	}).Info("Print dialog triggered")
	return nil
}
