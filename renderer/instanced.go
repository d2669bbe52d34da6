package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/sim"
)

// particleMeshRadius is the world radius of a particle at scale 1.0.
const particleMeshRadius = 0.15

// InstancedParticles draws the instance buffer with rl.DrawMeshInstanced.
// The buffer layout is slot-indexed and fixed-size; zero-scale entries
// are skipped here rather than in the simulation, which only promises a
// dense buffer.
type InstancedParticles struct {
	shader     rl.Shader
	viewPosLoc int32
	mesh       rl.Mesh
	material   rl.Material

	// Per-color transform batches; DrawMeshInstanced carries one tint
	// per call, so instances are grouped by their spawn color.
	batches map[sim.Color][]rl.Matrix
}

// NewInstancedParticles loads the instancing shader and sphere mesh.
func NewInstancedParticles(capacity int) *InstancedParticles {
	shader := rl.LoadShader("shaders/instancing.vs", "shaders/instancing.fs")
	viewPosLoc := rl.GetShaderLocation(shader, "viewPos")
	shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(shader, "mvp"))
	shader.UpdateLocation(rl.ShaderLocVectorView, viewPosLoc)
	shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(shader, "instanceTransform"))

	mesh := rl.GenMeshSphere(particleMeshRadius, 8, 12)

	material := rl.LoadMaterialDefault()
	material.Shader = shader

	return &InstancedParticles{
		shader:     shader,
		viewPosLoc: viewPosLoc,
		mesh:       mesh,
		material:   material,
		batches:    make(map[sim.Color][]rl.Matrix, 8),
	}
}

// Draw issues one instanced call per color batch. alpha scales every
// instance's opacity (used for trail ghosts).
func (ip *InstancedParticles) Draw(camera rl.Camera3D, buf *sim.InstanceBuffer, alpha float32) {
	for c := range ip.batches {
		ip.batches[c] = ip.batches[c][:0]
	}

	for i := range buf.Instances {
		inst := &buf.Instances[i]
		if inst.Scale <= 0 {
			continue
		}
		m := rl.MatrixMultiply(
			rl.MatrixScale(inst.Scale, inst.Scale, inst.Scale),
			rl.MatrixTranslate(inst.X, inst.Y, inst.Z),
		)
		ip.batches[inst.Color] = append(ip.batches[inst.Color], m)
	}

	view := []float32{camera.Position.X, camera.Position.Y, camera.Position.Z}
	rl.SetShaderValue(ip.shader, ip.viewPosLoc, view, rl.ShaderUniformVec3)

	for c, transforms := range ip.batches {
		if len(transforms) == 0 {
			continue
		}
		tint := rl.NewColor(c.R, c.G, c.B, uint8(float32(c.A)*alpha))
		ip.material.Maps.Color = tint
		rl.DrawMeshInstanced(ip.mesh, ip.material, transforms, len(transforms))
	}
}

// Unload releases GPU resources.
func (ip *InstancedParticles) Unload() {
	rl.UnloadMesh(&ip.mesh)
	rl.UnloadShader(ip.shader)
}
