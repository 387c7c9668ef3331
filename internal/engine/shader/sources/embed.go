// Package sources provides embedded GLSL shader sources.
package sources

import _ "embed"

// SceneVertexShader transforms scene geometry and forwards normals,
// colors and texture coordinates.
//
//go:embed scene.vert
var SceneVertexShader string

// ConstantColorFragmentShader outputs the interpolated vertex color or
// a sampled texture, without lighting.
//
//go:embed constant_color.frag
var ConstantColorFragmentShader string

// LambertFragmentShader applies diffuse lighting from a point light.
//
//go:embed lambert.frag
var LambertFragmentShader string

// BumpVertexShader is the vertex shader for bump-mapped rendering.
//
//go:embed bump.vert
var BumpVertexShader string

// BumpFragmentShader combines diffuse, normal and displacement maps.
//
//go:embed bump.frag
var BumpFragmentShader string

// SkyboxVertexShader is the vertex shader for the cube-map skybox.
//
//go:embed skybox.vert
var SkyboxVertexShader string

// SkyboxFragmentShader samples the skybox cube map.
//
//go:embed skybox.frag
var SkyboxFragmentShader string
