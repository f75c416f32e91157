package scene

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/flood"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group layout descriptors for the outline shader's three groups. These
// must stay structurally identical to the layouts the pipeline compiler
// derives from the shader source, or the bind groups created here would be
// rejected at draw time. The uniform groups are visible to both stages
// because the shader declares them once for both entry points.

// viewBindGroupLayout is group 0: the per-view uniform.
func viewBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "outline_view_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: flood.ViewUniformSize,
				},
			},
		},
	}
}

// instanceBindGroupLayout is group 1: the per-entity uniform.
func instanceBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "outline_instance_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: flood.InstanceUniformSize,
				},
			},
		},
	}
}

// alphaMaskBindGroupLayout is group 2: the alpha mask texture and sampler,
// present only on alpha-masked pipeline variants.
func alphaMaskBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "outline_alpha_mask_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}
