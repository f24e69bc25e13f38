package models

// Date layouts
const (
	DateLayoutISO = "2006-01-02"
	DateLayoutUK  = "02/01/2006"
)

// Extraction defaults
const (
	PlaceholderDescription      = "Transaction"
	DefaultMaxDescriptionLength = 100
	DefaultCreditThreshold      = 500
	DefaultMinTextChars         = 100
)

// CurrencyGBP is the currency every supported statement is issued in.
const CurrencyGBP = "GBP"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionOutputFile = 0600
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatQIF  = "qif"
	FormatOFX  = "ofx"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// SupportedFormats lists the export formats in the order they are documented.
var SupportedFormats = []string{FormatCSV, FormatQIF, FormatOFX, FormatJSON, FormatXLSX}
