package gpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources.

//go:embed shaders/scene.wgsl
var sceneShaderSource string

//go:embed shaders/portal_common.wgsl
var portalCommonSource string

//go:embed shaders/portal.wgsl
var portalFlatSource string

//go:embed shaders/portal_depth.wgsl
var portalDepthSource string

// portalShaderSource returns the portal program. The depth variant adds a
// depth texture binding and feeds sampled depth into the lens.
func portalShaderSource(depth bool) string {
	if depth {
		return portalCommonSource + "\n" + portalDepthSource
	}
	return portalCommonSource + "\n" + portalFlatSource
}

var (
	shaderCheckOnce sync.Once
	shaderCheckErr  error
)

// checkShaders compiles every program with naga once per process and
// reports the first diagnostic.
func checkShaders() error {
	shaderCheckOnce.Do(func() {
		programs := []struct {
			name string
			src  string
		}{
			{"scene", sceneShaderSource},
			{"portal", portalShaderSource(false)},
			{"portal_depth", portalShaderSource(true)},
		}
		for _, p := range programs {
			if _, err := naga.Compile(p.src); err != nil {
				shaderCheckErr = fmt.Errorf("gpu: compile %s shader: %w", p.name, err)
				return
			}
		}
	})
	return shaderCheckErr
}
