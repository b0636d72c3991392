package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey carries a per-request correlation id through contexts so
// timed operations can be tied back to the request that triggered them.
const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a child context tagged with the given id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Time logs the duration (and failure, if any) of an operation when the
// returned closure runs. Intended for use with defer on I/O paths:
//
//	defer obs.Time(ctx, "forecast.Current")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
