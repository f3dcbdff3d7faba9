package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/ascii-raytracer/pkg/config"
)

// BuiltinGroup is the group name of scenes compiled into the binary
const BuiltinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the config file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete scene listing
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// ListSceneFiles scans dir for YAML scene configs. A missing directory
// yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, ext := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, ext))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads "# Key: value" header comments from a scene file.
// Recognised keys are Scene, Description and Group.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       "file:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to open scene %s: %w", filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Scene":
			info.Name = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		}
	}

	return info, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the files in dir,
// grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	builtInScenes := []SceneInfo{
		{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Checkerboard floor with three reflective spheres",
			Group:       BuiltinGroup,
			Type:        "builtin",
		},
		{
			ID:          "mirrored",
			Name:        "Mirrored Scene",
			Description: "Default scene reflected through the YZ plane",
			Group:       BuiltinGroup,
			Type:        "builtin",
		},
	}

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, s := range append(builtInScenes, fileScenes...) {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	var groupNames []string
	for name := range groupMap {
		if name != BuiltinGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: BuiltinGroup, Scenes: groupMap[BuiltinGroup]})
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}

	return response, nil
}

// ErrUnknownScene is returned by LoadScene for an ID that names no scene
var ErrUnknownScene = errors.New("unknown scene")

// LoadScene resolves a scene ID from ListAllScenes into a config. Built-in
// scenes keep the camera, render and output settings of base; scene files
// are loaded whole.
func LoadScene(id, dir string, base *config.Config) (*config.Config, error) {
	if base == nil {
		base = config.DefaultConfig()
	}

	switch id {
	case "default", "mirrored":
		cfg := *base
		cfg.Scene = config.DefaultSceneConfig()
		cfg.Render.MirrorX = id == "mirrored"
		return &cfg, nil
	}

	if !strings.HasPrefix(id, "file:") {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, id)
	}
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return config.Load(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScene, id)
}

// titleCase converts a filename-style string to title case
// e.g., "spheres-only" -> "Spheres Only"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
