// Package domain holds the validated value types of the mailing list and the
// error kinds shared by the subscription and newsletter workflows.
//
// Values are constructed only through their Parse functions. Once built they
// are immutable, so any Email or Name seen by the rest of the program has
// already passed validation.
package domain
