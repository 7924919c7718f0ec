// Package resilience retries transient failures of remote dump stores.
//
// Errors carrying a retryable application error code (CACHE_IO, for
// example) are retried with jittered exponential backoff. A missing dump
// or a cancelled context is returned immediately:
//
//	err := resilience.Do(ctx, resilience.DefaultConfig(), func() error {
//	    return store.Upload(ctx, path, bytes.NewReader(body))
//	})
package resilience
