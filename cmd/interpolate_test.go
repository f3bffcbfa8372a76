package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshfield/fekit/InputParameters"
)

var scenarioYAML = `
Title: "Radial field on RT0"
ElementType: RT0
MeshType: Cartesian
MeshSize: 4
FieldType: Radial
FieldParams:
  Cx: 0.5
  Cy: 0.5
EvalPoints:
  - [0.25, 0.25]
  - [0.75, 0.60]
`

func TestScenarioParse(t *testing.T) {
	ip := &InputParameters.InterpolationParameters{}
	require.NoError(t, ip.Parse([]byte(scenarioYAML)))
	assert.Equal(t, "RT0", ip.ElementType)
	assert.Equal(t, 4, ip.MeshSize)
	assert.Equal(t, 0.5, ip.Param("Cx", 0))
	assert.Equal(t, 1.0, ip.Param("Missing", 1))
	require.Len(t, ip.EvalPoints, 2)
	assert.Equal(t, [2]float64{0.75, 0.60}, ip.EvalPoints[1])
}

func TestRunInterpolationScenario(t *testing.T) {
	ip := &InputParameters.InterpolationParameters{}
	require.NoError(t, ip.Parse([]byte(scenarioYAML)))
	assert.NotPanics(t, func() { RunInterpolation(ip) })
}

func TestBuildMeshDelaunay(t *testing.T) {
	ip := &InputParameters.InterpolationParameters{MeshType: "Delaunay", MeshSize: 10}
	msh := buildMesh(ip)
	assert.Greater(t, msh.NumCells(), 0)
}
