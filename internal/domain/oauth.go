package domain

// ResolvedIdentity is the normalized output of a provider callback:
// userinfo attributes plus the resolved email. Email may be empty when
// the provider exposed none; callers decide whether that is fatal.
type ResolvedIdentity struct {
	Provider   Provider
	ExternalID string
	Email      string
	GivenName  string
	FamilyName string
	Name       string
}

// DisplayName prefers the composite name attribute, falling back to
// the given/family pair.
func (ri ResolvedIdentity) DisplayName() string {
	if ri.Name != "" {
		return ri.Name
	}
	if ri.GivenName == "" {
		return ri.FamilyName
	}
	if ri.FamilyName == "" {
		return ri.GivenName
	}
	return ri.GivenName + " " + ri.FamilyName
}
