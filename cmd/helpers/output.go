package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/zinc-sig/pyramid/internal/output"
	"github.com/zinc-sig/pyramid/internal/store"
	"github.com/zinc-sig/pyramid/internal/upload"
	"github.com/zinc-sig/pyramid/internal/webhook"
)

// Delivery holds the optional sinks a report is sent to.
type Delivery struct {
	Webhook      *webhook.Client
	Publisher    *upload.Publisher
	Store        *store.Store
	LocalPath    string // report file written locally
	ReportRemote string // explicit remote report path
	Logger       *zap.Logger
}

// Deliver writes the report to every configured sink, recording webhook and
// upload status on r. Webhook failures never fail the command; local file,
// upload and store failures do.
func Deliver(ctx context.Context, d Delivery, r *output.Report, source string) error {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if d.Publisher != nil {
		var buf bytes.Buffer
		if err := output.WriteJSON(&buf, r.Payload()); err != nil {
			return err
		}
		paths, err := d.Publisher.Publish(ctx, r.ID, []byte(source), buf.Bytes(), d.ReportRemote)
		r.Uploads = paths
		if err != nil {
			return err
		}
	}

	if d.Webhook != nil {
		if err := d.Webhook.Send(ctx, r.ID, r.Payload()); err != nil {
			logger.Warn("webhook delivery failed", zap.String("report_id", r.ID), zap.Error(err))
			r.WebhookSent = false
			r.WebhookError = err.Error()
		} else {
			r.WebhookSent = true
		}
	}

	if d.Store != nil {
		if err := d.Store.Save(ctx, r); err != nil {
			return err
		}
	}

	if d.LocalPath != "" {
		var buf bytes.Buffer
		if err := output.WriteJSON(&buf, r); err != nil {
			return err
		}
		if err := os.WriteFile(d.LocalPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}

	return nil
}

// OutputJSON prints v as a single JSON line
func OutputJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
