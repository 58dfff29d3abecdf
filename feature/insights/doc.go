// Package insights turns an owner's inventory into a short markdown report
// with three sections: "Expiring Soon", "Low Stock" and "Overall Summary".
//
// Two generators exist. LocalGenerator computes the sections from fixed
// thresholds and is the default. GeminiGenerator sends a rendered prompt to the
// Generative Language API and retries rate limits and server errors.
//
// An empty inventory never reaches a generator; it yields the "No Products"
// document. Reports are cached by owner, date and inventory content, in memory
// or in Redis. Cache errors are logged and the report is generated anyway.
//
// ParseInsights splits a document into typed sections for display.
package insights
