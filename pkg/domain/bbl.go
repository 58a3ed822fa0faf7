// Package domain holds the typed identifiers shared across parcelview.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "parcelview/pkg/domain-errors"
)

// BBL is the Borough-Block-Lot triple identifying a NYC tax parcel.
//
// Invariants:
//   - Borough is an integer 1 through 5
//   - Block and Lot are positive
//
// Upstream systems encode the triple as zero-padded strings with widths that
// differ per source (block 5 digits everywhere; lot 4 digits in the document
// recorder, 5 in the assessment roll). Callers pick the width the source
// expects via BlockString/LotString rather than formatting by hand.
type BBL struct {
	Borough int
	Block   int
	Lot     int
}

// NewBBL builds a validated BBL.
func NewBBL(borough, block, lot int) (BBL, error) {
	b := BBL{Borough: borough, Block: block, Lot: lot}
	if err := b.Validate(); err != nil {
		return BBL{}, err
	}
	return b, nil
}

// ParseBBL builds a BBL from the string components a URL or upstream record
// carries. Leading zeros are accepted.
func ParseBBL(borough, block, lot string) (BBL, error) {
	br, err := strconv.Atoi(strings.TrimSpace(borough))
	if err != nil {
		return BBL{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid borough %q", borough))
	}
	bl, err := strconv.Atoi(strings.TrimSpace(block))
	if err != nil {
		return BBL{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid block %q", block))
	}
	lt, err := strconv.Atoi(strings.TrimSpace(lot))
	if err != nil {
		return BBL{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("invalid lot %q", lot))
	}
	return NewBBL(br, bl, lt)
}

// Validate rejects malformed keys before any external call is made.
func (b BBL) Validate() error {
	if b.Borough < 1 || b.Borough > 5 {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("borough must be 1-5, got %d", b.Borough))
	}
	if b.Block <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("block must be positive, got %d", b.Block))
	}
	if b.Lot <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("lot must be positive, got %d", b.Lot))
	}
	return nil
}

// String renders the canonical dashed form, e.g. "1-00685-0001".
func (b BBL) String() string {
	return fmt.Sprintf("%d-%05d-%04d", b.Borough, b.Block, b.Lot)
}

// BoroughString returns the single-digit borough code.
func (b BBL) BoroughString() string {
	return strconv.Itoa(b.Borough)
}

// BlockString returns the block zero-padded to 5 digits, the width every
// known source agrees on.
func (b BBL) BlockString() string {
	return fmt.Sprintf("%05d", b.Block)
}

// LotString returns the lot zero-padded to the given width. The document
// recorder wants 4, the assessment roll 5.
func (b BBL) LotString(width int) string {
	return fmt.Sprintf("%0*d", width, b.Lot)
}
