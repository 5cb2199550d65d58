package usda

import "strings"

// Patch applies the mesh, material and shader passes in that order to text
// and returns the new text with per-pass insertion counts. Each pass sees
// the output of the previous one.
func Patch(text string) (string, Insertions) {
	var ins Insertions
	text, ins.Mesh = PatchMeshes(text)
	text, ins.Material = PatchMaterials(text)
	text, ins.Shader = PatchShaders(text)
	return text, ins
}

// PatchMeshes inserts MeshDeclaration after the opening brace of every mesh
// block. It does nothing when Property already appears anywhere in text, so
// one declared mesh suppresses the pass for the whole document.
func PatchMeshes(text string) (string, int) {
	if !strings.Contains(text, meshMarker) || strings.Contains(text, Property) {
		return text, 0
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)
	var mesh blockTracker
	n := 0
	for _, line := range lines {
		out = append(out, line)
		switch {
		case strings.Contains(line, meshMarker):
			mesh.open(line)
		case mesh.awaiting() && strings.Contains(line, openBrace):
			out = append(out, mesh.line(MeshDeclaration))
			mesh.settle()
			n++
		}
	}
	return strings.Join(out, "\n"), n
}

// PatchMaterials inserts MaterialDeclaration after the opening brace of each
// material block that does not already mention Property, either between its
// definition and brace or anywhere in its body.
func PatchMaterials(text string) (string, int) {
	if !strings.Contains(text, materialMarker) {
		return text, 0
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)
	var material blockTracker
	declared := false
	n := 0
	for i, line := range lines {
		if strings.Contains(line, Property) {
			declared = true
		}
		out = append(out, line)
		switch {
		case strings.Contains(line, materialMarker):
			material.open(line)
			declared = false
		case material.awaiting() && strings.Contains(line, openBrace):
			if declared || blockDeclares(lines, i) {
				material.settle()
				continue
			}
			out = append(out, material.line(MaterialDeclaration))
			material.settle()
			n++
		}
	}
	return strings.Join(out, "\n"), n
}

// PatchShaders inserts ShaderDeclaration after the first inputs line of each
// UsdPreviewSurface shader whose definition line names that type. The
// Property guard is evaluated once against text as passed in, so it also
// sees declarations added by earlier passes.
func PatchShaders(text string) (string, int) {
	if !strings.Contains(text, surfaceConnectMarker) && !strings.Contains(text, shaderMarker) {
		return text, 0
	}
	alreadyDeclared := strings.Contains(text, Property)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)
	var shader blockTracker
	n := 0
	for _, line := range lines {
		out = append(out, line)
		switch {
		case strings.Contains(line, shaderMarker) && strings.Contains(line, previewSurfaceType):
			shader.open(line)
		case shader.awaiting() && strings.Contains(line, inputsToken) && !alreadyDeclared:
			out = append(out, shader.line(ShaderDeclaration))
			shader.settle()
			n++
		}
	}
	return strings.Join(out, "\n"), n
}
