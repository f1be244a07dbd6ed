// Package document resolves how quotes and invoices are rendered: page
// density, branding permissions per subscription tier, locale, and the
// content fingerprint used to key cached PDFs.
package document
