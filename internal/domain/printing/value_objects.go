package printing

import "github.com/appzetogit/indiankart-sub000/internal/domain/shared"

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > 50 || right > 50 || bottom > 50 || left > 50 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 50mm")
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins returns the 10mm margins used for A4 documents
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// PageSetup describes how a document is laid out on paper
type PageSetup struct {
	PaperSize   PaperSize   `json:"paper_size"`
	Orientation Orientation `json:"orientation"`
	Margins     Margins     `json:"margins"`
}

// DefaultPageSetup returns A4 portrait with 10mm margins
func DefaultPageSetup() PageSetup {
	return PageSetup{
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
	}
}

// PageSizeInches returns the printable paper size in inches, honoring orientation
func (p PageSetup) PageSizeInches() (width, height float64) {
	w, h := p.PaperSize.Dimensions()
	if p.Orientation == OrientationLandscape {
		w, h = h, w
	}
	return mmToInches(w), mmToInches(h)
}

// MarginsInches returns the margins in inches (top, right, bottom, left)
func (p PageSetup) MarginsInches() (top, right, bottom, left float64) {
	return mmToInches(p.Margins.Top), mmToInches(p.Margins.Right),
		mmToInches(p.Margins.Bottom), mmToInches(p.Margins.Left)
}

func mmToInches(mm int) float64 {
	return float64(mm) / 25.4
}
