// Package asyncx provides small concurrency helpers used across the service.
//
// Do is a fire-and-forget launcher for background work where the caller does
// not need the result, such as post-login side effects.
//
// RetryWithBackoff retries flaky upstream calls with exponential backoff and
// honors context cancellation between attempts.
package asyncx
