package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	GeometryType string         `json:"geometryType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	Properties   map[string]any `json:"properties,omitempty"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo lists the Phong coefficients of a surface
func extractMaterialInfo(m material.Material) map[string]any {
	return map[string]any{
		"kd":         vec(m.KD),
		"ks":         vec(m.KS),
		"kt":         vec(m.KT),
		"kr":         vec(m.KR),
		"shininess":  m.Shininess,
		"glossiness": m.Glossiness,
		"blur":       m.Blur,
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(math.Min(m.KD.X, 1)*255), int(math.Min(m.KD.Y, 1)*255), int(math.Min(m.KD.Z, 1)*255)),
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(surface geometry.Surface) (string, map[string]any) {
	properties := make(map[string]any)

	switch geom := surface.(type) {
	case *geometry.Sphere:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vec(geom.Point())
		properties["normal"] = vec(geom.Normal(geom.Point()))
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = vertexList(geom.Vertices())
		return "triangle", properties

	case *geometry.Polygon:
		properties["vertices"] = vertexList(geom.Vertices())
		return "polygon", properties

	case *geometry.Circle:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius
		return "circle", properties

	case *geometry.Cylinder:
		axis := geom.Axis()
		properties["base"] = vec(axis.Origin)
		properties["axis"] = vec(axis.Direction)
		properties["radius"] = geom.Radius()
		properties["height"] = geom.Height
		return "cylinder", properties

	case *geometry.Tube:
		properties["base"] = vec(geom.Axis.Origin)
		properties["axis"] = vec(geom.Axis.Direction)
		properties["radius"] = geom.Radius
		return "tube", properties

	default:
		return "unknown", properties
	}
}

func vertexList(vertices []core.Vec3) [][3]float64 {
	out := make([][3]float64, len(vertices))
	for i, v := range vertices {
		out[i] = vec(v)
	}
	return out
}

// inspectPixel casts the center ray of a pixel and returns the closest hit.
// The first declared surface wins a tie, as in the tracer.
func inspectPixel(sceneObj *scene.Scene, ray core.Ray) (geometry.Intersection, bool) {
	var closest geometry.Intersection
	found := false
	for _, hit := range sceneObj.Intersect(ray, math.Inf(1)) {
		if !found || hit.Distance < closest.Distance {
			closest = hit
			found = true
		}
	}
	return closest, found
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r, s.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	pixelX, errX := strconv.Atoi(r.URL.Query().Get("x"))
	pixelY, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, errors.New("x and y pixel coordinates are required"))
		return
	}

	pipeline, err := s.newPipeline(req, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	width, height := pipeline.Camera.Resolution()
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeError(w, http.StatusBadRequest, errors.New("pixel coordinates out of bounds"))
		return
	}

	hit, ok := inspectPixel(pipeline.Scene, pipeline.Camera.ConstructRay(width, height, pixelX, pixelY))
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	geometryType, geometryProps := extractGeometryInfo(hit.Surface)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vec(hit.Point),
		Normal:       vec(hit.Surface.Normal(hit.Point)),
		Distance:     hit.Distance,
		Properties: map[string]any{
			"geometry": geometryProps,
			"material": extractMaterialInfo(hit.Surface.Material()),
			"emission": vec(hit.Surface.Emission()),
		},
	})
}
