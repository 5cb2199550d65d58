// Package usda applies the double-sided patches to USDA scene text.
//
// The passes are line-oriented: they never build a scene graph. Each pass
// tracks at most one open block with a small state machine (outside,
// awaiting the opening brace or first input, inside) plus the indentation
// captured from the block's definition line.
//
// Types:
//   - Pass (mesh, material, shader) and Insertions (per-pass counters)
//
// Functions:
//   - Patch(text) runs the mesh, material and shader passes in order
//   - PatchMeshes / PatchMaterials / PatchShaders run a single pass
//   - Decode drops invalid UTF-8; IsBinary detects crate and zip payloads
package usda
