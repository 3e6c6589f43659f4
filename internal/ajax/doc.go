// Package ajax issues JSON requests and dispatches the result to success and
// error handlers.
//
// Every request declares a JSON content type and expects a JSON reply. For
// POST, PUT and DELETE the payload is serialized to JSON unless it is already
// text; for GET it becomes the query string. Calls block until the server
// answers. Client.Go runs the same call on a goroutine and returns a Call the
// caller can wait on.
//
// An error handler is mandatory. There is no implicit fallback that shows the
// message to the user; AlertTo builds an explicit one.
package ajax
