// Package query parses the query string of a page address into ordered
// name/value pairs.
//
// Parsing never fails. Fragments without an '=' produce a name whose value is
// absent, which is distinct from an empty value. Percent-escapes are left as
// they appear in the address.
package query
