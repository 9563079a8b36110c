// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing screens with recording hooks and asserting
// the order of lifecycle calls. They are not intended for production usage.
package testutil
