// Package id generates identifiers: sortable ULIDs for request correlation
// and unguessable alphanumeric tokens for subscription confirmation links.
package id
