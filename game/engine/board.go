package engine

const (
	startName  = "起点"
	chanceName = "机会"
	fateName   = "命运"
)

var boardTemplate = [BoardLength]string{
	startName, "北京", "上海", "广州", "深圳", "成都",
	chanceName, "杭州", "武汉", "西安", "南京", "重庆",
	fateName, "青岛", "长沙", "苏州", "天津", chanceName,
	"厦门", "郑州", fateName, "济南", "福州", "合肥",
}

// Board is the fixed loop of spaces
type Board struct {
	spaces []*Space
}

// NewBoard builds the 24-space loop. Special names become non-property
// spaces; every other slot is a property priced (index+1)*1000.
func NewBoard() *Board {
	b := &Board{spaces: make([]*Space, 0, len(boardTemplate))}
	for i, name := range boardTemplate {
		space := &Space{Index: i, Name: name}
		switch name {
		case startName:
			space.Kind = SpaceStart
		case chanceName:
			space.Kind = SpaceChance
		case fateName:
			space.Kind = SpaceFate
		default:
			space.Kind = SpaceProperty
			space.Property = NewProperty(name, (i+1)*PriceStep)
		}
		b.spaces = append(b.spaces, space)
	}
	return b
}

// Len returns the number of spaces
func (b *Board) Len() int {
	return len(b.spaces)
}

// SpaceAt returns the space at index, wrapping around the loop
func (b *Board) SpaceAt(index int) *Space {
	n := len(b.spaces)
	return b.spaces[((index%n)+n)%n]
}

// PropertyAt returns the property at index, or nil for special spaces
func (b *Board) PropertyAt(index int) *Property {
	prop, _ := b.SpaceAt(index).AsProperty()
	return prop
}

// PropertyIndices lists the indices of all property spaces in board order
func (b *Board) PropertyIndices() []int {
	var indices []int
	for _, s := range b.spaces {
		if s.Kind == SpaceProperty {
			indices = append(indices, s.Index)
		}
	}
	return indices
}

// Reset clears ownership and levels without touching the ordering
func (b *Board) Reset() {
	for _, s := range b.spaces {
		if prop, ok := s.AsProperty(); ok {
			prop.reset()
		}
	}
}

// snapshot deep-copies the spaces
func (b *Board) snapshot() []Space {
	out := make([]Space, len(b.spaces))
	for i, s := range b.spaces {
		out[i] = *s
		if s.Property != nil {
			prop := *s.Property
			out[i].Property = &prop
		}
	}
	return out
}

// Spaces returns a detached copy of every space in board order
func (b *Board) Spaces() []Space {
	return b.snapshot()
}
