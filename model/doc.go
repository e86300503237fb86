// Package model provides the persistent entity base types: a guid-keyed
// base model with an optimistic lock version, a traceable specialization
// with automatically stamped audit fields, and the context principal
// accessor used for audit attribution.
package model
