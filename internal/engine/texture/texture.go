package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/logger"
)

// NewTexture2D loads an image file into a mipmapped 2D texture.
// wrap selects GL_REPEAT instead of clamp-to-edge. Returns 0 when the
// file cannot be loaded; a 0 texture id simply downgrades the mesh's
// coloring mode instead of failing the scene.
func NewTexture2D(path string, wrap bool) uint32 {
	img, err := LoadImage(path, true)
	if err != nil {
		logger.Warn("failed to load texture", zap.String("path", path), zap.Error(err))
		return 0
	}

	wrapMode := int32(gl.CLAMP_TO_EDGE)
	if wrap {
		wrapMode = gl.REPEAT
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	size := img.Bounds().Size()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("loaded texture",
		zap.String("path", path),
		zap.Uint32("id", id),
		zap.Int("width", size.X),
		zap.Int("height", size.Y))
	return id
}

// NewCubeMap loads six face images into a cube-map texture. faces must
// be ordered +X, -X, +Y, -Y, +Z, -Z. Any unreadable face aborts the
// load and returns 0.
func NewCubeMap(faces [6]string) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	for i, path := range faces {
		// Cube-map faces keep their top-left origin.
		img, err := LoadImage(path, false)
		if err != nil {
			logger.Warn("failed to load cube-map face",
				zap.String("path", path), zap.Error(err))
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
			gl.DeleteTextures(1, &id)
			return 0
		}
		size := img.Bounds().Size()
		gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i), 0, gl.RGBA,
			int32(size.X), int32(size.Y), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return id
}
