// Package checkedoutbooks implements the read-side use case of listing the
// copies that are currently out, joined with their catalog info, newest
// checkout first.
package checkedoutbooks
