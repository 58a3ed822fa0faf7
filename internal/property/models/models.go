// Package models holds the record types flowing through the property core.
//
// Raw* types mirror what the upstream government datasets return and are
// never mutated after fetch. Transaction and TaxRow are derived fresh per
// request and never persisted.
package models

// Class-code descriptions as the document recorder emits them. Classification
// flags on Transaction are set by exact equality against these values.
const (
	ClassDeeds     = "DEEDS AND OTHER CONVEYANCES"
	ClassMortgages = "MORTGAGES & INSTRUMENTS"
	ClassLiens     = "UCC AND FEDERAL LIENS"
	ClassOther     = "OTHER DOCUMENTS"
)

// UnknownParty is the sentinel rendered when a transaction side has no
// usable party rows.
const UnknownParty = "Unknown"

// RawDocument is one recorded legal instrument as fetched. Amount is nil
// when the filing carries no consideration.
type RawDocument struct {
	ID                   string
	TypeCode             string
	TypeDescription      string
	Date                 string
	Amount               *float64
	ClassCodeDescription string
}

// RawParty is one named participant on a document. RoleCode is "1", "2" or
// "3"; its meaning depends on the document type.
type RawParty struct {
	DocumentID      string
	RoleCode        string
	Name            string
	RoleDescription string
	Address1        string
	Address2        string
	City            string
	State           string
	Zip             string
	Country         string
}

// PartyDetail is the deduplicated contact record kept per unique party name
// on a transaction. Fields come from the first occurrence of the name.
type PartyDetail struct {
	Name            string `json:"name"`
	RoleDescription string `json:"roleDescription,omitempty"`
	Address1        string `json:"address1,omitempty"`
	Address2        string `json:"address2,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Zip             string `json:"zip,omitempty"`
	Country         string `json:"country,omitempty"`
}

// Transaction is the normalized "who did what to whom, when, for how much"
// view of a single valid document.
//
// Invariants:
//   - FromParty and ToParty are never empty; they hold [UnknownParty] when
//     no matching party rows exist
//   - PartyDetails has at most one entry per distinct trimmed name
//   - The four class flags are structurally independent booleans, though the
//     fixed class vocabulary means at most one is set
type Transaction struct {
	DocumentID           string        `json:"documentId"`
	TypeCode             string        `json:"typeCode"`
	TypeDescription      string        `json:"typeDescription"`
	Date                 string        `json:"date"`
	Amount               float64       `json:"amount"`
	ClassCodeDescription string        `json:"classCodeDescription"`
	FromParty            []string      `json:"fromParty"`
	ToParty              []string      `json:"toParty"`
	FromPartyType        string        `json:"fromPartyType"`
	ToPartyType          string        `json:"toPartyType"`
	IsDeed               bool          `json:"isDeed"`
	IsMortgage           bool          `json:"isMortgage"`
	IsLien               bool          `json:"isLien"`
	IsOther              bool          `json:"isOther"`
	PartyDetails         []PartyDetail `json:"partyDetails"`
}

// ValuationSnapshot is one fiscal-year assessment record. The valuation
// fetcher supplies snapshots ordered descending by year with market value
// already filtered to positive values.
type ValuationSnapshot struct {
	Year          string
	MarketValue   *float64
	AssessedValue *float64
	TaxableValue  *float64
	TaxClass      string
}

// TaxRow is one display-ready row of the tax trend. Nil fields mean the
// underlying data was missing, never that derivation failed.
type TaxRow struct {
	Year          string   `json:"year"`
	MarketValue   *float64 `json:"marketValue"`
	AssessedValue *float64 `json:"assessedValue"`
	TaxableValue  *float64 `json:"taxableValue"`
	Rate          *float64 `json:"rate"`
	BaseTax       *float64 `json:"baseTax"`
	YoYChange     *float64 `json:"yoyChange"`
}
