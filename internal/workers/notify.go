package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

const (
	flushInterval = 100 * time.Millisecond
	queueSize     = 1024
)

// notifyWorker publishes feed change events. Writes come in bursts (a post
// plus a wave of likes lands within the same tick), and every event costs
// each watcher a full feed re-query, so events inside one flush window are
// collapsed per activity before publication.
type notifyWorker struct {
	notifier domain.FeedNotifier
	ch       chan domain.FeedChange
}

var _ domain.NotifyWorker = (*notifyWorker)(nil)

func NewNotifyWorker(n domain.FeedNotifier) *notifyWorker {
	return &notifyWorker{
		notifier: n,
		ch:       make(chan domain.FeedChange, queueSize),
	}
}

// Send enqueues a change for publication. Never blocks.
func (w notifyWorker) Send(change domain.FeedChange) {
	select {
	case w.ch <- change:
	default:
		logrus.Info("notifyWorker's channel is full, change dropped")
	}
}

func (w notifyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]domain.FeedChange, 0, queueSize)
	for {
		select {
		case change := <-w.ch:
			batch = append(batch, change)
		case <-ticker.C:
			w.flush(ctx, batch)
			batch = batch[:0]
		case <-ctx.Done():
			logrus.Info("shutting down notifyWorker, flushing remaining changes...")
			for {
				select {
				case change := <-w.ch:
					batch = append(batch, change)
				default:
					w.flush(context.Background(), batch)
					return
				}
			}
		}
	}
}

func (w notifyWorker) flush(ctx context.Context, batch []domain.FeedChange) {
	if len(batch) == 0 {
		return
	}

	type changeKey struct {
		aid  int64
		kind domain.ChangeKind
	}
	seen := make(map[changeKey]bool, len(batch))
	for _, change := range batch {
		key := changeKey{aid: change.ActivityID, kind: change.Kind}
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := w.notifier.Publish(ctx, change); err != nil {
			logrus.Errorf("failed to publish feed change %s for activity %d: %v", change.Kind, change.ActivityID, err)
		}
	}
}
