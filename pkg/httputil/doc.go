// Package httputil provides the HTTP plumbing shared by the source clients.
//
// # Overview
//
//   - [NewClient]: a resty client with default headers, a per-attempt
//     timeout and the observability HTTP hooks attached
//   - [Retry]: bounded retry with linear backoff for transient failures
//
// # Retry
//
// [Retry] only retries errors marked transient, either wrapped in
// [RetryableError] or carrying the TRANSPORT_ERROR code. NOT_FOUND and
// RATE_LIMITED are returned on the first attempt:
//
//	err := httputil.Retry(ctx, maxRetries+1, time.Second, func(attempt int) error {
//	    if err := limiter.Acquire(ctx); err != nil {
//	        return err
//	    }
//	    return fetch(ctx)
//	})
//
// The wait before retry n is n times the base delay, so with a one second
// base the schedule is 1s, 2s, 3s.
package httputil
