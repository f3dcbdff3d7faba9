package server

import (
	"net/http"
	"strconv"

	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/df07/ascii-raytracer/pkg/geometry"
	"github.com/df07/ascii-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Row          int                    `json:"row"`
	Col          int                    `json:"col"`
	Hit          bool                   `json:"hit"`
	ObjectIndex  int                    `json:"objectIndex"` // -1 when nothing marks the pixel
	GeometryType string                 `json:"geometryType"`
	Origin       [3]float64             `json:"origin"`
	Direction    [3]float64             `json:"direction"`
	FinalOrigin  [3]float64             `json:"finalOrigin"`
	FinalDir     [3]float64             `json:"finalDirection"`
	Properties   map[string]interface{} `json:"properties"`
}

// ProbeResponse lists the spheres crossed by a probe ray
type ProbeResponse struct {
	Contacts []ContactInfo `json:"contacts"`
}

// ContactInfo is one sphere crossed by a probe ray
type ContactInfo struct {
	Index  int        `json:"index"`
	Center [3]float64 `json:"center"`
	Point  [3]float64 `json:"point"`
}

// InspectResult records how a camera ray travelled through the scene
type InspectResult struct {
	Hit    bool
	Index  int
	Object core.Hittable
	Start  core.Ray
	Final  core.Ray
}

// inspectPixel threads the ray for one cell through the scene like the
// renderer does, remembering which object marked it
func inspectPixel(sceneObj *scene.Scene, start core.Ray) InspectResult {
	ray := start
	for i, obj := range sceneObj.Objects() {
		result := obj.Test(ray)
		ray = result.Ray
		if result.Hit {
			return InspectResult{Hit: true, Index: i, Object: obj, Start: start, Final: ray}
		}
	}
	return InspectResult{Hit: false, Index: -1, Start: start, Final: ray}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(obj core.Hittable) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := obj.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(geom.Center())
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Floor:
		properties["center"] = toArray(geom.Center())
		properties["side"] = geom.Side
		properties["cell"] = geom.Cell
		return "floor", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports how the ray through one grid cell was resolved
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	row, err := strconv.Atoi(r.URL.Query().Get("row"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid row")
		return
	}
	col, err := strconv.Atoi(r.URL.Query().Get("col"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid col")
		return
	}

	sceneObj, raytracer, err := s.setupRenderingPipeline(req, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	camera := raytracer.Camera()
	if row < 0 || row >= camera.Rows() || col < 0 || col >= camera.Cols() {
		writeError(w, http.StatusBadRequest, "Cell coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, camera.GetRay(row, col))
	response := InspectResponse{
		Row:          row,
		Col:          col,
		Hit:          result.Hit,
		ObjectIndex:  result.Index,
		GeometryType: "none",
		Origin:       toArray(result.Start.Origin),
		Direction:    toArray(result.Start.Direction),
		FinalOrigin:  toArray(result.Final.Origin),
		FinalDir:     toArray(result.Final.Direction),
	}
	if result.Hit {
		response.GeometryType, response.Properties = s.extractGeometryInfo(result.Object)
	}

	writeJSON(w, http.StatusOK, response)
}

// handleProbe lists every sphere the given ray's line passes through
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	origin, err := parseVecParam(query, "origin", core.NewVec3(0, 0, 3))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	direction, err := parseVecParam(query, "direction", core.NewVec3(0, 0, -1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if direction.IsZero() {
		writeError(w, http.StatusBadRequest, "direction must not be zero")
		return
	}

	cfg, err := s.resolveScene(query.Get("scene"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sceneObj, err := scene.NewSceneFromConfig(cfg.Scene)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := ProbeResponse{Contacts: []ContactInfo{}}
	for _, c := range sceneObj.Probe(core.NewRay(origin, direction)) {
		response.Contacts = append(response.Contacts, ContactInfo{
			Index:  c.Index,
			Center: toArray(c.Center),
			Point:  toArray(c.Point),
		})
	}
	writeJSON(w, http.StatusOK, response)
}
