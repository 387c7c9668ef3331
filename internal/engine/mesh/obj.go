package mesh

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/logger"
	"github.com/Faultbox/skyfield/pkg/math"
)

// LoadOBJ replaces the mesh contents with geometry parsed from a
// Wavefront OBJ file. Only v, vn and f records are consumed; faces
// reference positions only (slash-separated texture/normal indices on
// faces are not supported) and may use negative, relative indices.
// Non-triangular and malformed faces are dropped with a warning while
// the rest of the file keeps loading. Normals are
// recomputed unless the file supplied exactly one per vertex, and
// spherical texture coordinates are always derived. GPU buffers are not
// built here; call BuildGPUResources once the mesh is final.
func (m *Mesh) LoadOBJ(path string) error {
	m.Clear()

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("failed to open model file", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m.resetBounds()
	dropped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return fmt.Errorf("parse %s: vertex: %w", path, err)
			}
			m.vertices = append(m.vertices, v)
			m.bbMin = m.bbMin.Min(v)
			m.bbMax = m.bbMax.Max(v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return fmt.Errorf("parse %s: normal: %w", path, err)
			}
			m.normals = append(m.normals, n)
		case "f":
			idx := make([]uint32, 0, 3)
			malformed := false
			for _, field := range fields[1:] {
				num, err := strconv.Atoi(field)
				if err != nil {
					malformed = true
					break
				}
				if num < 0 {
					// Relative index: -1 is the most recent vertex.
					num = len(m.vertices) + 1 + num
				}
				idx = append(idx, uint32(num-1))
			}
			if malformed || len(idx) != 3 {
				dropped++
				continue
			}
			m.triangles = append(m.triangles, Triangle{idx[0], idx[1], idx[2]})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if dropped > 0 {
		logger.Warn("dropped unusable faces",
			zap.String("path", path),
			zap.Int("count", dropped))
	}

	m.finalizeBounds()
	if len(m.normals) != len(m.vertices) {
		m.RecomputeNormals()
	}
	m.computeTexCoordsSphere()

	logger.Debug("loaded model",
		zap.String("path", path),
		zap.Int("vertices", len(m.vertices)),
		zap.Int("triangles", len(m.triangles)))
	return nil
}

// LoadOBJNormalized loads an OBJ file, then recenters the mesh on
// target and rescales it so its largest bounding-box axis is length
// units.
func (m *Mesh) LoadOBJNormalized(path string, target math.Vec3, length float32) error {
	if err := m.LoadOBJ(path); err != nil {
		return err
	}
	m.TranslateToCenter(target)
	m.ScaleToLength(length)
	return nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, err
		}
		out[i] = float32(v)
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}
