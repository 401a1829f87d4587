package services

import "time"

// withRetry runs fn up to attempts times with a fixed delay between tries.
// Used on the authoring-side autofill path; the recipient submission path
// never retries automatically.
func withRetry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
