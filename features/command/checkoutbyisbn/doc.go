// Package checkoutbyisbn implements the use case of lending out a copy of a
// title identified by its ISBN.
//
// The copy with the lowest available id is selected. When every copy of the
// title is already out, or the title is unknown, the command is a silent no-op
// so that repeated requests stay idempotent.
package checkoutbyisbn
