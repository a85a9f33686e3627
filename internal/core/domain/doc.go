// Package domain contains the core business types for askdoc.
// It has no dependencies on adapters or infrastructure.
package domain
