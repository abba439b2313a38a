// Package handlers exposes the subscription workflow and the newsletter
// dispatcher over HTTP, and maps their error kinds to status codes.
package handlers
