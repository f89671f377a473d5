// Package rules turns an analyzed cabinet section into the panels that have to
// be cut for it.
//
// Every function here is pure: the same section always yields the same
// components and nothing is logged or stored.
package rules

import (
	"fmt"

	"github.com/ironsheep/cutlist-mcp/internal/section"
)

// Panel dimensions in millimetres.
const (
	GableHeight    = 720
	PanelThickness = 18
	BackThickness  = 6
	BraceHeight    = 100
	EndPanelHeight = 900

	// WidthAdjustment is the two gables subtracted from the outer width.
	WidthAdjustment = 36
	// DepthAdjustment is the back clearance subtracted from the outer depth.
	DepthAdjustment = 40

	// maxBackWidth is the widest back panel cut in one piece.
	maxBackWidth = 900
	// drawerGap is the clearance taken off each drawer face dimension.
	drawerGap = 4
	// defaultDrawerCount applies to drawer units with no drawers counted.
	defaultDrawerCount = 3
)

// ComponentType groups components the way the cutting list is sorted.
type ComponentType string

const (
	TypeGable      ComponentType = "GABLE"
	TypeShelf      ComponentType = "S/H"
	TypeBack       ComponentType = "BACKS"
	TypeBrace      ComponentType = "BRACES"
	TypeTopBottom  ComponentType = "T/B"
	TypeDrawerFace ComponentType = "DRAWER_FACES"
	TypeEndPanel   ComponentType = "END_PANEL"
)

// Edge banding descriptions.
const (
	BandingFrontTopBottom = "Front + Top/Bottom"
	BandingFront          = "Front only"
	BandingNone           = "None"
	BandingAll            = "All edges"
	BandingVisible        = "All visible edges"
)

// Component is one line of the cutting list.
//
// UnitWidth, Height and Depth are nil when they do not apply to the part.
type Component struct {
	ComponentType ComponentType `json:"component_type" yaml:"component_type"`
	PartName      string        `json:"part_name" yaml:"part_name"`
	SectionIndex  int           `json:"section_index" yaml:"section_index"`
	UnitWidth     *int          `json:"unit_width" yaml:"unit_width"`
	Width         int           `json:"width" yaml:"width"`
	Height        *int          `json:"height" yaml:"height"`
	Depth         *int          `json:"depth" yaml:"depth"`
	Quantity      int           `json:"quantity" yaml:"quantity"`
	Thickness     int           `json:"thickness" yaml:"thickness"`
	EdgeBanding   string        `json:"edge_banding" yaml:"edge_banding"`
}

// AreaMM2 returns the cut area of all pieces of the component: width × height
// when the height is known, otherwise width × depth.
func (c Component) AreaMM2() int {
	switch {
	case c.Height != nil:
		return c.Width * *c.Height * c.Quantity
	case c.Depth != nil:
		return c.Width * *c.Depth * c.Quantity
	default:
		return 0
	}
}

func ptr(v int) *int { return &v }

// CalculateComponents returns the parts for one cabinet section.
//
// A zero depth or index takes the default of 560 mm or 1. A shelf count
// outside [0, section.MaxShelves] becomes one shelf, and a drawer unit with a
// drawer count outside [1, section.MaxDrawers] gets three drawers. Tall units
// and unrecognized types are cut as straight cabinets.
func CalculateComponents(s section.Section) []Component {
	depth := s.DepthMM
	if depth == 0 {
		depth = section.DefaultDepthMM
	}
	index := s.Index
	if index == 0 {
		index = 1
	}
	c := cabinet{width: s.WidthMM, depth: depth, index: index}

	switch s.CabinetType {
	case section.TypeFiller:
		return c.filler()
	case section.TypeCorner:
		return c.corner(shelfCount(s))
	case section.TypeDrawer:
		n := s.Drawers
		if n < 1 || n > section.MaxDrawers {
			n = defaultDrawerCount
		}
		return c.drawer(n)
	default:
		return c.straight(shelfCount(s))
	}
}

func shelfCount(s section.Section) int {
	if s.Shelves < 0 || s.Shelves > section.MaxShelves {
		return section.DefaultShelves
	}
	return s.Shelves
}

// cabinet holds the outer size of one section.
type cabinet struct {
	width, depth, index int
}

func (c cabinet) innerWidth() int { return c.width - WidthAdjustment }
func (c cabinet) innerDepth() int { return c.depth - DepthAdjustment }

// label appends the section number to a part name.
func (c cabinet) label(name string) string {
	return fmt.Sprintf("%s (Section %d)", name, c.index)
}

func (c cabinet) part(t ComponentType, partName string) Component {
	return Component{
		ComponentType: t,
		PartName:      partName,
		SectionIndex:  c.index,
		UnitWidth:     ptr(c.width),
		Quantity:      1,
		Thickness:     PanelThickness,
	}
}

// horizontal is a panel lying flat inside the carcass: base, shelf, divider.
func (c cabinet) horizontal(t ComponentType, partName string) Component {
	p := c.part(t, partName)
	p.Width = c.innerWidth()
	p.Depth = ptr(c.innerDepth())
	p.EdgeBanding = BandingFront
	return p
}

func (c cabinet) straight(shelves int) []Component {
	iw := c.innerWidth()

	gable := c.part(TypeGable, c.label("Side Panel"))
	gable.Width = c.depth
	gable.Height = ptr(GableHeight)
	gable.Quantity = 2
	gable.EdgeBanding = BandingFrontTopBottom

	parts := []Component{gable, c.horizontal(TypeShelf, c.label("Base Panel"))}
	for i := 1; i <= shelves; i++ {
		parts = append(parts, c.horizontal(TypeShelf, c.label(fmt.Sprintf("Shelf %d", i))))
	}

	parts = append(parts, c.backs()...)

	brace := c.part(TypeBrace, c.label("Top Rail"))
	brace.Width = iw
	brace.Height = ptr(BraceHeight)
	brace.Quantity = 2
	brace.EdgeBanding = BandingNone
	return append(parts, brace)
}

// backs splits wide backs into equal panels no wider than the board allows.
func (c cabinet) backs() []Component {
	iw := c.innerWidth()
	back := func(name string, width int) Component {
		p := c.part(TypeBack, c.label(name))
		p.Width = width
		p.Height = ptr(GableHeight)
		p.Thickness = BackThickness
		p.EdgeBanding = BandingNone
		return p
	}

	if iw <= maxBackWidth {
		return []Component{back("Back Panel", iw)}
	}
	n := iw/maxBackWidth + 1
	parts := make([]Component, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, back(fmt.Sprintf("Back Panel %d", i), iw/n))
	}
	return parts
}

func (c cabinet) corner(shelves int) []Component {
	return append(c.straight(shelves),
		c.horizontal(TypeTopBottom, fmt.Sprintf("Top Panel (Corner, Section %d)", c.index)),
		c.horizontal(TypeTopBottom, fmt.Sprintf("Bottom Panel (Corner, Section %d)", c.index)),
	)
}

func (c cabinet) drawer(n int) []Component {
	parts := c.straight(0)
	for i := 1; i < n; i++ {
		parts = append(parts, c.horizontal(TypeShelf, c.label(fmt.Sprintf("Drawer Divider %d", i))))
	}

	faceHeight := (GableHeight-(n-1)*PanelThickness)/n - drawerGap
	for i := 1; i <= n; i++ {
		face := c.part(TypeDrawerFace, c.label(fmt.Sprintf("Drawer Face %d", i)))
		face.Width = c.width - drawerGap
		face.Height = ptr(faceHeight)
		face.EdgeBanding = BandingAll
		parts = append(parts, face)
	}
	return parts
}

func (c cabinet) filler() []Component {
	p := c.part(TypeEndPanel, c.label("Filler Panel"))
	p.Width = c.depth
	p.Height = ptr(EndPanelHeight)
	p.EdgeBanding = BandingVisible
	return []Component{p}
}

// AddEndPanels appends the left and right end panels of the run.
//
// The left panel copies the gable width of section 1 and the right panel that
// of section totalSections. A panel is omitted when that section has no gable,
// for example because it is a filler or was dropped during detection.
func AddEndPanels(components []Component, totalSections int) []Component {
	firstWidth, lastWidth := -1, -1
	for _, c := range components {
		if c.ComponentType != TypeGable {
			continue
		}
		if c.SectionIndex == 1 {
			firstWidth = c.Width
		}
		if c.SectionIndex == totalSections {
			lastWidth = c.Width
		}
	}

	endPanel := func(name string, index, width int) Component {
		return Component{
			ComponentType: TypeEndPanel,
			PartName:      name,
			SectionIndex:  index,
			Width:         width,
			Height:        ptr(EndPanelHeight),
			Quantity:      1,
			Thickness:     PanelThickness,
			EdgeBanding:   BandingVisible,
		}
	}

	out := make([]Component, len(components), len(components)+2)
	copy(out, components)
	if firstWidth >= 0 {
		out = append(out, endPanel("End Panel (Left)", 1, firstWidth))
	}
	if lastWidth >= 0 {
		out = append(out, endPanel("End Panel (Right)", totalSections, lastWidth))
	}
	return out
}
