// Package printing turns quotes and invoices into PDF documents.
//
// A Document is the renderer-neutral view of a quote or invoice combined
// with its resolved document.RenderConfig. Two renderers consume it:
//
//   - HTMLRenderer executes the built-in html/template and prints the page
//     with headless Chrome through ChromedpRenderer
//   - GofpdfRenderer draws the same layout with gofpdf and needs no browser
//
// FallbackRenderer chains them so a host without Chrome still produces PDFs.
package printing
