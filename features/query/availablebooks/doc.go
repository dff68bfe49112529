// Package availablebooks implements the read-side use case of listing which
// titles currently have copies on the shelf, with the copy ids a checkout
// would pick from. The optional ISBN filter narrows the result to one title.
package availablebooks
