package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"uemesh-converter/internal/asset"
	"uemesh-converter/internal/mesh"
)

var (
	inspectPreferSource bool
	inspectBones        bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <sidecar>",
	Short: "Print a summary of one converted export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := asset.Convert(args[0], asset.Options{PreferSource: inspectPreferSource, Log: logger})
		if err != nil {
			return err
		}
		printMesh(cmd.OutOrStdout(), m, inspectBones)
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectPreferSource, "prefer-source", false, "use static mesh source models even when cooked data exists")
	inspectCmd.Flags().BoolVar(&inspectBones, "bones", false, "list every bone")
}

func printMesh(w io.Writer, m *mesh.Mesh, bones bool) {
	fmt.Fprintf(w, "%s (%s)\n", m.Name, m.Kind)
	b := m.Bounds
	fmt.Fprintf(w, "  bounds: center %v radius %.3f box %v..%v\n", b.Center, b.Radius, b.Min, b.Max)

	fmt.Fprintf(w, "  materials: %d\n", len(m.Materials))
	for i, mat := range m.Materials {
		fmt.Fprintf(w, "    [%d] %q ref %d\n", i, mat.SlotName, mat.Ref)
	}

	fmt.Fprintf(w, "  lods: %d\n", len(m.Lods))
	for i := range m.Lods {
		lod := &m.Lods[i]
		fmt.Fprintf(w, "    lod %d: %d verts, %d faces, %d uv sets, normals=%t tangents=%t colors=%t\n",
			i, len(lod.Verts), lod.Indices.Len()/3, lod.NumTexCoords, lod.HasNormals, lod.HasTangents, lod.Colors != nil)
		for j, s := range lod.Sections {
			fmt.Fprintf(w, "      section %d: material %d, first index %d, %d faces\n", j, s.MaterialIndex, s.FirstIndex, s.NumFaces)
		}
	}

	if m.Kind == mesh.Skeletal {
		fmt.Fprintf(w, "  bones: %d\n", len(m.Bones))
		if bones {
			for i, bone := range m.Bones {
				fmt.Fprintf(w, "    [%d] %s parent %d\n", i, bone.Name, bone.ParentIndex)
			}
		}
	}

	if len(m.Warnings) > 0 {
		fmt.Fprintf(w, "  warnings: %d\n", len(m.Warnings))
		for _, warn := range m.Warnings {
			fmt.Fprintf(w, "    %s\n", warn)
		}
	}
}
