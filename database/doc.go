// Package database provides connection management, configuration, model
// registration, table migrations, query log hooks, health checks, and SQL
// error classification built on top of Bun.
package database
