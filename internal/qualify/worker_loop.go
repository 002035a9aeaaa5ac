package qualify

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// RunWorker consumes the qualification queue until ctx is canceled. Failed
// jobs are deleted, not retried: the discard policy for qualification faults
// applies in queue mode too, with the error sink as the only witness.
func (d *Dispatcher) RunWorker(ctx context.Context) error {
	if d.queue == nil {
		return errors.New("qualify: worker requires a queue")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		messages, err := d.queue.Receive(ctx, 10, 10)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Error("queue receive failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, msg := range messages {
			var j job
			if err := json.Unmarshal([]byte(msg.Body), &j); err != nil {
				d.sink(err, "")
			} else if err := d.ProcessID(ctx, j.LeadID); err != nil {
				d.sink(err, j.LeadID)
			}
			if err := d.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
				d.logger.Error("queue delete failed", "error", err, "message_id", msg.ID)
			}
		}
	}
}
