// Package scheduler wraps robfig/cron for periodic maintenance such as the
// expiry sweep.
package scheduler
