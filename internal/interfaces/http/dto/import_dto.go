package dto

// Import modes for quote items
const (
	ImportModeAppend  = "append"
	ImportModeReplace = "replace"
)

// QuoteItemImportForm is the multipart form of a quote item import.
// Mappings is a JSON array of column mappings; when empty the file's
// headers must be the field names.
type QuoteItemImportForm struct {
	Mappings string `form:"mappings"`
	Mode     string `form:"mode" binding:"omitempty,oneof=append replace"`
}
