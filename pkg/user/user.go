package user

// Authentication and profile management are handled outside this service.
// Requests arrive with an already-verified X-User-Id header; this package
// only carries that identity through the request context.

type User struct {
	Id int64
}
