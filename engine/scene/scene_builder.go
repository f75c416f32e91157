package scene

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/flood"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
)

// SceneBuilderOption is a functional option applied to a scene during construction via NewScene.
type SceneBuilderOption func(*sceneImpl)

// WithName sets the scene's name.
//
// Parameters:
//   - name: the name to set
//
// Returns:
//   - SceneBuilderOption: a function that sets the scene's name
func WithName(name string) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.name = name
	}
}

// WithActive sets whether the engine renders the scene. Scenes are active by
// default.
//
// Parameters:
//   - active: true to render the scene
//
// Returns:
//   - SceneBuilderOption: a function that sets the active flag
func WithActive(active bool) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.active = active
	}
}

// WithCamera attaches a camera to the scene.
//
// Parameters:
//   - cam: the camera to attach
//
// Returns:
//   - SceneBuilderOption: a function that attaches the camera
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.camera = cam
	}
}

// WithRenderer attaches a renderer to the scene.
//
// Parameters:
//   - r: the renderer to attach
//
// Returns:
//   - SceneBuilderOption: a function that attaches the renderer
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.renderer = r
	}
}

// WithLayers sets the view's render layer mask.
//
// Parameters:
//   - layers: the layer mask
//
// Returns:
//   - SceneBuilderOption: a function that sets the layer mask
func WithLayers(layers outline.RenderLayers) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.layers = layers
	}
}

// WithScale sets the physical-to-logical pixel ratio used to convert outline
// widths to pixels. Values at or below zero are ignored.
//
// Parameters:
//   - scale: the pixel ratio
//
// Returns:
//   - SceneBuilderOption: a function that sets the pixel ratio
func WithScale(scale float32) SceneBuilderOption {
	return func(s *sceneImpl) {
		if scale > 0 {
			s.scale = scale
		}
	}
}

// WithViewport sets the view's initial target size in physical pixels.
//
// Parameters:
//   - width, height: the target size in pixels
//
// Returns:
//   - SceneBuilderOption: a function that sets the viewport
func WithViewport(width, height int) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.SetViewport(width, height)
	}
}

// WithNodeOptions forwards options to the scene's flood node, such as the
// bounds worker count.
//
// Parameters:
//   - options: the flood.NodeOption functions to apply
//
// Returns:
//   - SceneBuilderOption: a function that applies the node options
func WithNodeOptions(options ...flood.NodeOption) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.nodeOptions = append(s.nodeOptions, options...)
	}
}
