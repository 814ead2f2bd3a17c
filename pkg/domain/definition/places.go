package definition

import "context"

type PlacesService interface {
	Autocomplete(context.Context, *AutocompleteRequest) *AutocompleteResponse
	Resolve(context.Context, *ResolveRequest) *ResolveResponse
}

type AutocompleteRequest struct {
	Input        string
	SessionToken string
	Bias         *Coordinate
}

type AutocompleteResponse struct {
	Predictions []*Prediction
	Error       error
}

type Prediction struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
}

// ResolveRequest is satisfied by either a place id or a free-text address.
type ResolveRequest struct {
	PlaceID      string
	Address      string
	SessionToken string
}

type ResolveResponse struct {
	Place *Place
	Error error
}

type Place struct {
	PlaceID          string     `json:"placeId,omitempty"`
	FormattedAddress string     `json:"formattedAddress,omitempty"`
	Location         Coordinate `json:"location"`
}
