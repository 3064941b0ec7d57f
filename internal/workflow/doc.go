// Package workflow holds the request state machines: settlement requests,
// reminders and friend requests. Each request starts pending and is resolved
// exactly once. The functions here are pure; persisting the result is the
// caller's job.
package workflow
