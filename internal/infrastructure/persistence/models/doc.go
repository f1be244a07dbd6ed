// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: shared columns (AggregateModel, TenantAggregateModel)
// - organization.go: organizations and their branding
// - quote.go: quotes and quote items
// - invoice.go: invoices, invoice items and the yearly number sequence
// - audit.go: append-only audit entries
package models
