package model

// CategoryID identifies one of the fixed investor-segment search profiles.
type CategoryID string

const (
	CategoryPEItaly            CategoryID = "pe_italy"
	CategoryPEEurope           CategoryID = "pe_europe"
	CategoryPEGlobal           CategoryID = "pe_global"
	CategoryFamilyOfficeItaly  CategoryID = "family_office_italy"
	CategoryFamilyOfficeEurope CategoryID = "family_office_europe"
	CategoryFamilyOfficeGlobal CategoryID = "family_office_global"
	CategoryCorporate          CategoryID = "corporate"
	CategorySWFInstitutional   CategoryID = "swf_institutional"
	CategoryDebt               CategoryID = "debt"
)

// Category binds a search segment to a display name and a preferred provider.
// This is static configuration, not runtime state: the planner renders one
// prompt per category and routes it to the category's provider.
type Category struct {
	ID       CategoryID
	Name     string
	Provider string
}

// Categories is the fixed, ordered list of search segments. The provider
// assignment spreads the load across all five providers so consensus comes
// from genuinely independent sources.
var Categories = []Category{
	{ID: CategoryPEItaly, Name: "Italian PE", Provider: "anthropic"},
	{ID: CategoryPEEurope, Name: "European PE", Provider: "openai"},
	{ID: CategoryPEGlobal, Name: "Global PE", Provider: "gemini"},
	{ID: CategoryFamilyOfficeItaly, Name: "Italian Family Offices", Provider: "perplexity"},
	{ID: CategoryFamilyOfficeEurope, Name: "European Family Offices", Provider: "mistral"},
	{ID: CategoryFamilyOfficeGlobal, Name: "Global Family Offices", Provider: "anthropic"},
	{ID: CategoryCorporate, Name: "Corporate Buyers", Provider: "openai"},
	{ID: CategorySWFInstitutional, Name: "SWF & Institutional", Provider: "gemini"},
	{ID: CategoryDebt, Name: "Debt Funds", Provider: "perplexity"},
}
