package hearthpwn

// DeckStub is the identity of a deck discovered on a listing page,
// before its card list has been fetched.
type DeckStub struct {
	ID      int64
	Class   string
	Type    string
	Rating  int64
	Dust    int64
	Updated int64
}

// CardEntry is one (card, copies) pair inside a deck. Amount 0 marks a
// row whose copy count could not be extracted; such entries are kept so
// the data gap stays visible downstream.
type CardEntry struct {
	Name   string
	Amount int64
}

type Deck struct {
	DeckStub
	Cards []CardEntry
}

type CollectionCard struct {
	ExternalID int64 `json:"externalID"`
	Count      int64 `json:"count"`
}

type Collection struct {
	Cards       []CollectionCard `json:"cards"`
	UpdatedDate string           `json:"updatedDate"`
}
