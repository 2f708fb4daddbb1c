package models

// ResourceCategory groups relocation resources by topic.
type ResourceCategory string

const (
	ResourceHousing   ResourceCategory = "housing"
	ResourceLanguage  ResourceCategory = "language"
	ResourceLocalLife ResourceCategory = "local-life"
	ResourceLegal     ResourceCategory = "legal"
	ResourceHealth    ResourceCategory = "health"
)

// ResourceItem is a curated relocation guide entry.
type ResourceItem struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Category ResourceCategory `json:"category"`
	Excerpt  string           `json:"excerpt"`
	URL      string           `json:"url"`
}

// ResourcesQuery filters and paginates the resource list. An empty or
// "all" category matches everything.
type ResourcesQuery struct {
	Page     int
	PageSize int
	Category string
}
