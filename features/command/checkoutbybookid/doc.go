// Package checkoutbybookid implements the use case of lending out one
// specific copy, identified by its catalog id.
//
// Unknown ids and copies that are already out are silent no-ops, mirroring
// the semantics of checking out by ISBN.
package checkoutbybookid
