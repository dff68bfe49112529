// Package returnbook implements the use case of taking a copy back at the desk.
//
// The open circulation record of the copy is completed with the return
// timestamp, keeping its place in the history. Who hands the copy back is
// accepted but not checked against the record; libraries take returns from
// anyone. A copy without an open record fails with
// core.ErrCirculationNotFound and nothing is stored.
package returnbook
