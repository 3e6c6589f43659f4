// Package storage provides a uniform get/set facade over interchangeable
// string key/value backends.
//
// Backends:
//   - session: values scoped to one session, in memory or in Redis
//   - cookie: session cookies read and written through a cookie document
//   - local: a JSON file in a data directory with no expiry
//
// The facade is bound to one backend when it is constructed. Switching
// strategy means building another facade; entries are never migrated between
// backends.
package storage
