package textract

import "context"

// DefaultNotifyFilename is the attachment name used for job results.
const DefaultNotifyFilename = "extracted-text.txt"

// Notifier delivers a finished job's output to an external channel.
type Notifier interface {
	// Notify sends body as an attachment named filename with title as its
	// caption. Delivery is best effort.
	Notify(ctx context.Context, title, body, filename string) error
}
