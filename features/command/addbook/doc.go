// Package addbook implements the use case of adding a new copy of a title to
// the catalog.
//
// Every copy gets an id scoped to its ISBN: the first copy of a title gets
// id 0, every further copy the highest existing id among its copies plus one.
// Adding a copy never fails; the catalog only ever grows.
package addbook
