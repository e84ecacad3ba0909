package repository

// Filterable columns per entity. Filters arrive as query-string values, so
// anything outside the whitelist is dropped rather than interpolated.
var (
	GuideFilterColumns    = []string{"domain", "sub_domain", "guide_type", "status"}
	PositionFilterColumns = []string{"domain", "sub_domain", "status"}
	UnitFilterColumns     = []string{"domain", "status"}
)

// SanitizeFilters keeps only whitelisted columns with non-empty values.
func SanitizeFilters(filters map[string]string, allowed []string) map[string]string {
	out := make(map[string]string, len(filters))
	for _, column := range allowed {
		if value, ok := filters[column]; ok && value != "" {
			out[column] = value
		}
	}
	return out
}
