package scene

import "slices"

// Tag marks an entity with a role the room logic looks up by.
type Tag string

const (
	TagWall       Tag = "wall"
	TagFloor      Tag = "floor"
	TagWindow     Tag = "window"
	TagPoster     Tag = "poster"
	TagShirt      Tag = "shirt"
	TagPlayButton Tag = "play-button"
	TagLamp       Tag = "lamp"
	TagLampLight  Tag = "lamp-light"
	TagTile       Tag = "tile"
	TagBuilding   Tag = "building"
	TagFurniture  Tag = "furniture"
	TagSign       Tag = "sign"
)

// TagSet is a small ordered set of tags. The zero value is empty.
type TagSet []Tag

// Has reports whether tag is in the set.
func (s TagSet) Has(tag Tag) bool {
	return slices.Contains(s, tag)
}

// With returns the set including tag.
func (s TagSet) With(tag Tag) TagSet {
	if s.Has(tag) {
		return s
	}
	return append(slices.Clip(s), tag)
}

// Without returns the set excluding tag.
func (s TagSet) Without(tag Tag) TagSet {
	i := slices.Index(s, tag)
	if i < 0 {
		return s
	}
	return slices.Delete(slices.Clone(s), i, i+1)
}
