package usda

// Property is the attribute name every pass looks for before inserting.
const Property = "doubleSided"

// IndentUnit is added to a block's definition indentation for inserted lines.
const IndentUnit = "    "

// Declarations inserted by each pass.
const (
	MeshDeclaration     = "uniform bool doubleSided = 1"
	MaterialDeclaration = "uniform bool doubleSided = 1"
	ShaderDeclaration   = "bool inputs:doubleSided = 1"
)

// Markers matched as plain substrings of a line.
const (
	meshMarker           = "def Mesh"
	materialMarker       = "def Material"
	shaderMarker         = "def Shader"
	surfaceConnectMarker = "token outputs:surface.connect"
	previewSurfaceType   = "UsdPreviewSurface"
	inputsToken          = "inputs:"
	openBrace            = "{"
	closeBrace           = "}"
)

// Pass identifies one of the three insertion passes.
type Pass string

const (
	PassMesh     Pass = "mesh"
	PassMaterial Pass = "material"
	PassShader   Pass = "shader"
)

// Passes lists the passes in the order Patch applies them.
var Passes = []Pass{PassMesh, PassMaterial, PassShader}

// Insertions counts inserted declarations per pass.
type Insertions struct {
	Mesh     int
	Material int
	Shader   int
}

// Total returns the number of inserted lines across all passes.
func (i Insertions) Total() int {
	return i.Mesh + i.Material + i.Shader
}

// Count returns the counter for p.
func (i Insertions) Count(p Pass) int {
	switch p {
	case PassMesh:
		return i.Mesh
	case PassMaterial:
		return i.Material
	case PassShader:
		return i.Shader
	}
	return 0
}
