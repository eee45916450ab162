package lighting

// Flat uniform arrays, padded to the shader limits.

// DirectionalArrays returns directions and colors as flat xyz arrays.
func (s *Set) DirectionalArrays() (dirs, colors []float32) {
	dirs = make([]float32, MaxDirectionalLights*3)
	colors = make([]float32, MaxDirectionalLights*3)
	for i, l := range s.Directional {
		put3(dirs, i, l.Direction.Array())
		put3(colors, i, l.Color)
	}
	return dirs, colors
}

// PointArrays returns positions, colors and (range, decay) pairs.
func (s *Set) PointArrays() (positions, colors, params []float32) {
	positions = make([]float32, MaxPointLights*3)
	colors = make([]float32, MaxPointLights*3)
	params = make([]float32, MaxPointLights*2)
	for i, l := range s.Points {
		put3(positions, i, l.Position.Array())
		put3(colors, i, l.Color)
		params[i*2] = l.Range
		params[i*2+1] = l.Decay
	}
	return positions, colors, params
}

// SpotArrays returns positions, directions, colors and
// (range, decay, cos outer, cos inner) quadruples.
func (s *Set) SpotArrays() (positions, directions, colors, params []float32) {
	positions = make([]float32, MaxSpotLights*3)
	directions = make([]float32, MaxSpotLights*3)
	colors = make([]float32, MaxSpotLights*3)
	params = make([]float32, MaxSpotLights*4)
	for i, l := range s.Spots {
		put3(positions, i, l.Position.Array())
		put3(directions, i, l.Direction.Array())
		put3(colors, i, l.Color)
		params[i*4] = l.Range
		params[i*4+1] = l.Decay
		params[i*4+2] = l.CosOuter
		params[i*4+3] = l.CosInner
	}
	return positions, directions, colors, params
}

func put3(dst []float32, i int, v [3]float32) {
	dst[i*3], dst[i*3+1], dst[i*3+2] = v[0], v[1], v[2]
}
