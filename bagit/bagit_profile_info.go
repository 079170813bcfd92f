package bagit

// BagItProfileInfo contains descriptive information about a profile:
// who publishes it, which version it is, and where to get help.
type BagItProfileInfo struct {
	BagItProfileIdentifier string `json:"bagItProfileIdentifier"`
	BagItProfileVersion    string `json:"bagItProfileVersion"`
	ContactEmail           string `json:"contactEmail"`
	ContactName            string `json:"contactName"`
	ExternalDescription    string `json:"externalDescription"`
	SourceOrganization     string `json:"sourceOrganization"`
	Version                string `json:"version"`
}
