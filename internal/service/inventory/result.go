package inventory

// AssignResult reports how an assignment batch was applied.
type AssignResult struct {
	Assigned int `json:"assigned"`
	Updated  int `json:"updated"`
}

// CleanupResult reports what a duplicate sweep removed.
type CleanupResult struct {
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	CatalogRepaired   int `json:"catalogRepaired"`
}

// AddCatalogResult reports an import or manual add.
type AddCatalogResult struct {
	Added         int `json:"added"`
	ReassignedIDs int `json:"reassignedIds"`
}
