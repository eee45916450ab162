// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PhongVertexShader transforms mesh vertices into world and clip space.
//
//go:embed phong.vert
var PhongVertexShader string

// PhongFragmentShader shades with ambient, directional, point and spot
// lights.
//
//go:embed phong.frag
var PhongFragmentShader string

// DepthVertexShader renders opaque meshes into the shadow map.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string
