/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshfield/fekit/InputParameters"
	"github.com/meshfield/fekit/element"
	"github.com/meshfield/fekit/fespace"
	"github.com/meshfield/fekit/fieldeval"
	"github.com/meshfield/fekit/mesh"
	"github.com/meshfield/fekit/types"
)

type InterpModel struct {
	ParamFile string
}

// InterpolateCmd represents the interpolate command
var InterpolateCmd = &cobra.Command{
	Use:   "interpolate",
	Short: "Interpolates an analytic field into an FE space and samples the result",
	Long:  `Interpolates an analytic field into an FE space and samples the result`,
	Run: func(cmd *cobra.Command, args []string) {
		im := &InterpModel{}
		im.ParamFile, _ = cmd.Flags().GetString("inputParametersFile")
		ip := processInterpInput(im)
		RunInterpolation(ip)
	},
}

func processInterpInput(im *InterpModel) (ip *InputParameters.InterpolationParameters) {
	var (
		err error
	)
	if len(im.ParamFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Radial field on RT0"
ElementType: RT0
MeshType: Cartesian
MeshSize: 8
FieldType: Radial
FieldParams:
  Cx: 0.5
  Cy: 0.5
EvalPoints:
  - [0.25, 0.25]
  - [0.75, 0.60]
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(im.ParamFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InterpolationParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(InterpolateCmd)
	InterpolateCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file describing mesh, element and field")
}

func buildMesh(ip *InputParameters.InterpolationParameters) *mesh.Mesh {
	n := ip.MeshSize
	if n <= 0 {
		n = 8
	}
	switch ip.MeshType {
	case "Delaunay":
		rng := rand.New(rand.NewSource(42))
		pts := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
		for i := 0; i < n; i++ {
			pts = append(pts, [2]float64{rng.Float64(), rng.Float64()})
		}
		return mesh.Delaunay(pts)
	case "Cartesian", "":
		return mesh.CartesianSquare(n)
	default:
		panic(fmt.Errorf("unknown mesh type [%s]", ip.MeshType))
	}
}

// fieldFor builds the analytic field callback and its exact divergence
func fieldFor(ip *InputParameters.InterpolationParameters) (data fespace.DataFunc, div float64) {
	switch ip.FieldType {
	case "Uniform", "":
		ax, ay := ip.Param("Ax", 1), ip.Param("Ay", 0)
		data = func(qp *fespace.QueryPoint) ([]float64, error) {
			return []float64{ax, ay}, nil
		}
		div = 0
	case "Radial":
		cx, cy := ip.Param("Cx", 0.5), ip.Param("Cy", 0.5)
		data = func(qp *fespace.QueryPoint) ([]float64, error) {
			return []float64{qp.X - cx, qp.Y - cy}, nil
		}
		div = 2
	case "Vortex":
		cx, cy := ip.Param("Cx", 0.5), ip.Param("Cy", 0.5)
		data = func(qp *fespace.QueryPoint) ([]float64, error) {
			return []float64{cy - qp.Y, qp.X - cx}, nil
		}
		div = 0
	default:
		panic(fmt.Errorf("unknown field type [%s]", ip.FieldType))
	}
	return
}

func RunInterpolation(ip *InputParameters.InterpolationParameters) {
	ip.Print()
	var (
		msh        = buildMesh(ip)
		data, divX = fieldFor(ip)
	)
	etName := ip.ElementType
	if etName == "" {
		etName = "RT0"
	}
	et, err := element.New(etName)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("mesh: %d cells, %d faces\n", msh.NumCells(), msh.NumFaces())

	sp := fespace.NewFESpace("field", msh, et)
	sol := fespace.NewFEVector(fespace.BlockSpec{Name: "field", Tag: "u", Space: sp})
	if err = fespace.Interpolate(sol.Block(0), types.OnCells, data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("interpolated %d dofs, dof vector L2 norm %8.5f\n",
		sol.Len(), sol.Block(0).Norm())

	pe := fieldeval.NewPointEvaluator(nil,
		fieldeval.FieldSpec{Tag: "u", Op: fieldeval.Identity},
		fieldeval.FieldSpec{Tag: "u", Op: fieldeval.Divergence},
	)
	if err = pe.Initialize(sol); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	points := ip.EvalPoints
	if len(points) == 0 {
		points = [][2]float64{{0.25, 0.25}, {0.5, 0.5}, {0.75, 0.75}}
	}
	var (
		result = make([]float64, 3)
		maxErr float64
	)
	for _, p := range points {
		if err = pe.EvaluateAtPoint(result, p[0], p[1]); err != nil {
			fmt.Printf("point (%8.5f,%8.5f): %s\n", p[0], p[1], err.Error())
			continue
		}
		exact, _ := data(&fespace.QueryPoint{X: p[0], Y: p[1]})
		e := math.Max(math.Abs(result[0]-exact[0]), math.Abs(result[1]-exact[1]))
		e = math.Max(e, math.Abs(result[2]-divX))
		if e > maxErr {
			maxErr = e
		}
		fmt.Printf("point (%8.5f,%8.5f): field (%8.5f,%8.5f), divergence %8.5f\n",
			p[0], p[1], result[0], result[1], result[2])
	}
	fmt.Printf("max abs error against the analytic field: %8.5e\n", maxErr)
}
