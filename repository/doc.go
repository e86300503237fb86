// Package repository provides a generic entity repository built on Bun with
// guid-keyed lookup, optimistic locking, load graphs, and a typed error
// model keyed by symbolic operation names.
package repository
