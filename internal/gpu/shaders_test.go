package gpu

import (
	"strings"
	"testing"

	"github.com/gogpu/naga"
)

func TestShadersCompile(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"scene", sceneShaderSource},
		{"portal", portalShaderSource(false)},
		{"portal_depth", portalShaderSource(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.src == "" {
				t.Fatal("shader source is empty")
			}
			spirv, err := naga.Compile(tt.src)
			if err != nil {
				if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
					t.Skipf("Skipping: naga feature not yet implemented: %v", err)
				}
				t.Fatalf("failed to compile %s shader: %v", tt.name, err)
			}
			if len(spirv) < 4 {
				t.Fatal("SPIR-V too short")
			}
			// SPIR-V magic number 0x07230203, little-endian.
			if spirv[0] != 0x03 || spirv[1] != 0x02 || spirv[2] != 0x23 || spirv[3] != 0x07 {
				t.Errorf("bad SPIR-V magic % x", spirv[:4])
			}
		})
	}
}

func TestPortalDepthVariantBindsDepth(t *testing.T) {
	if strings.Contains(portalShaderSource(false), "texture_depth_2d") {
		t.Error("flat portal shader declares a depth texture")
	}
	if !strings.Contains(portalShaderSource(true), "texture_depth_2d") {
		t.Error("depth portal shader does not declare a depth texture")
	}
}
